package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs-lzh/movie-list/internal/model"
	"github.com/qs-lzh/movie-list/internal/password"
	"github.com/qs-lzh/movie-list/internal/repository"
	"github.com/qs-lzh/movie-list/internal/testutil"
)

const existingPassword = "Abcdef1!"

func newValidator(t *testing.T) (*Validator, repository.UserRepo, *password.Hasher) {
	t.Helper()
	db := testutil.OpenDB(t)
	hasher := testutil.Hasher(t)
	users := repository.NewUserRepoGorm(db)

	hash, err := hasher.Hash(existingPassword)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}))
	return NewValidator(users, hasher), users, hasher
}

func validSignup() SignupForm {
	return SignupForm{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "Xyz123$x",
		PasswordConfirm: "Xyz123$x",
	}
}

func TestValidate_SignupValid(t *testing.T) {
	v, _, _ := newValidator(t)

	result, err := v.Validate(context.Background(), validSignup())
	require.NoError(t, err)
	assert.True(t, result.Valid(), "errors: %v", result.Errors)
	assert.Equal(t, "bob", result.Values[FieldUsername])
	assert.Len(t, result.Values, 4)
}

func TestValidate_ShortUsernameAlwaysReported(t *testing.T) {
	v, _, _ := newValidator(t)

	forms := []SignupForm{
		{Username: "a", Email: "bob@example.com", Password: "Xyz123$x", PasswordConfirm: "Xyz123$x"},
		{Username: "", Email: "", Password: "", PasswordConfirm: ""},
		{Username: "é", Email: "alice@example.com", Password: "weak", PasswordConfirm: "nope"},
	}
	for _, f := range forms {
		result, err := v.Validate(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, MsgUsernameTooShort, result.Errors[FieldUsername])
	}
}

func TestValidate_UsernameLength(t *testing.T) {
	v, _, _ := newValidator(t)
	ctx := context.Background()

	longest := strings.Repeat("é", 64)
	result, err := v.Validate(ctx, SignupForm{Username: longest, Email: "bob@example.com", Password: "Xyz123$x", PasswordConfirm: "Xyz123$x"})
	require.NoError(t, err)
	assert.True(t, result.Valid(), result.Errors)

	result, err = v.Validate(ctx, SignupForm{Username: longest + "x", Email: "bob@example.com", Password: "Xyz123$x", PasswordConfirm: "Xyz123$x"})
	require.NoError(t, err)
	assert.Equal(t, MsgUsernameTooLong, result.Errors[FieldUsername])
}

func TestValidate_CollectsEveryFailure(t *testing.T) {
	v, _, _ := newValidator(t)

	result, err := v.Validate(context.Background(), SignupForm{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "short",
		PasswordConfirm: "different",
	})
	require.NoError(t, err)

	assert.Equal(t, map[Field]string{
		FieldUsername:        MsgUsernameTaken,
		FieldEmail:           MsgEmailTaken,
		FieldPassword:        MsgPasswordWeak,
		FieldPasswordConfirm: MsgPasswordMismatch,
	}, result.Errors)
	assert.False(t, result.Valid())
}

func TestValidate_Email(t *testing.T) {
	v, _, _ := newValidator(t)
	ctx := context.Background()

	cases := []struct {
		name string
		form Form
		want string
	}{
		{"signup empty", SignupForm{Email: ""}, MsgEmailInvalid},
		{"signup no tld", SignupForm{Email: "bob@example"}, MsgEmailInvalid},
		{"signup no at", SignupForm{Email: "bob.example.com"}, MsgEmailInvalid},
		{"signup taken", SignupForm{Email: "alice@example.com"}, MsgEmailTaken},
		{"signup free", SignupForm{Email: "bob@example.com"}, ""},
		{"forgot unknown", ForgotForm{Email: "nobody@example.com"}, MsgEmailNotFound},
		{"forgot known", ForgotForm{Email: "alice@example.com"}, ""},
		{"login unknown", LoginForm{Email: "nobody@example.com"}, MsgEmailNotFound},
		{"reset skipped", ResetForm{Email: "garbage"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := v.ValidateField(ctx, tc.form, FieldEmail)
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestValidate_LoginPassword(t *testing.T) {
	v, _, _ := newValidator(t)
	ctx := context.Background()

	result, err := v.Validate(ctx, LoginForm{Email: "alice@example.com", Password: "Wrong123!"})
	require.NoError(t, err)
	assert.Equal(t, map[Field]string{FieldPassword: MsgPasswordWrong}, result.Errors)

	result, err = v.Validate(ctx, LoginForm{Email: "alice@example.com", Password: existingPassword})
	require.NoError(t, err)
	assert.True(t, result.Valid())

	// unknown email is reported once, on the email field
	result, err = v.Validate(ctx, LoginForm{Email: "nobody@example.com", Password: existingPassword})
	require.NoError(t, err)
	assert.Equal(t, map[Field]string{FieldEmail: MsgEmailNotFound}, result.Errors)
}

func TestValidate_ResetPassword(t *testing.T) {
	v, _, _ := newValidator(t)
	ctx := context.Background()

	result, err := v.Validate(ctx, ResetForm{Email: "alice@example.com", Password: existingPassword, PasswordConfirm: existingPassword})
	require.NoError(t, err)
	assert.Equal(t, map[Field]string{FieldPassword: MsgPasswordReused}, result.Errors)

	result, err = v.Validate(ctx, ResetForm{Email: "alice@example.com", Password: "Newpass1!", PasswordConfirm: "Newpass1!"})
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.NotContains(t, result.Values, FieldEmail)
}

func TestValidate_PasswordConfirm(t *testing.T) {
	v, _, _ := newValidator(t)
	ctx := context.Background()

	msg, err := v.ValidateField(ctx, SignupForm{Password: "Abcdef1!", PasswordConfirm: ""}, FieldPasswordConfirm)
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordMismatch, msg)

	msg, err = v.ValidateField(ctx, SignupForm{Password: "Abcdef1!", PasswordConfirm: "abcdef1!"}, FieldPasswordConfirm)
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordMismatch, msg)

	msg, err = v.ValidateField(ctx, SignupForm{Password: "Abcdef1!", PasswordConfirm: "Abcdef1!"}, FieldPasswordConfirm)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestIsValidEmail(t *testing.T) {
	for _, email := range []string{"bob@example.com", "a.b+tag@mail.example.co.uk", "x_y-z@d1.io"} {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range []string{"", "bob", "bob@", "@example.com", "bob@example", "bob@@example.com", "bob @example.com", "bob@exa_mple.com"} {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsStrongPassword(t *testing.T) {
	accepted := []string{"Abcde1!", "Abcdef1!", "ABCDEF1@", "aaaaaA1$", "Zz9&Zz9&Zz9&"}
	for _, p := range accepted {
		assert.True(t, IsStrongPassword(p), p)
	}

	rejected := map[string]string{
		"Abcd1!":    "too short",
		"abcdef1!":  "no uppercase",
		"Abcdefg!":  "no digit",
		"Abcdefg1":  "no symbol",
		"Abcdef1!#": "symbol outside the set",
		"Abcdef1! ": "space",
		"Äbcdef1!":  "non ascii letter",
	}
	for p, reason := range rejected {
		assert.False(t, IsStrongPassword(p), reason)
	}

	for _, symbol := range strings.Split(passwordSymbols, "") {
		assert.True(t, IsStrongPassword("Abcdef1"+symbol), symbol)
	}
}

type failingLookup struct{}

var errStoreDown = errors.New("store down")

func (failingLookup) GetByUsername(context.Context, string) (*model.User, error) {
	return nil, errStoreDown
}

func (failingLookup) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, errStoreDown
}

func TestValidate_StoreErrorPropagates(t *testing.T) {
	v := NewValidator(failingLookup{}, testutil.Hasher(t))

	_, err := v.Validate(context.Background(), validSignup())
	assert.ErrorIs(t, err, errStoreDown)
}

func TestResult_RedisplayOmitsPasswords(t *testing.T) {
	v, _, _ := newValidator(t)

	result, err := v.Validate(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, map[Field]string{
		FieldUsername: "bob",
		FieldEmail:    "bob@example.com",
	}, result.Redisplay())
}

func TestDescriptorFor(t *testing.T) {
	signup := DescriptorFor(KindSignup)
	assert.Equal(t, "Sign Up", signup.Title)
	assert.Equal(t, []Field{FieldUsername, FieldEmail, FieldPassword, FieldPasswordConfirm}, names(signup))

	assert.Equal(t, []Field{FieldEmail, FieldPassword}, names(DescriptorFor(KindLogin)))
	assert.Equal(t, []Field{FieldEmail}, names(DescriptorFor(KindForgot)))

	reset := DescriptorFor(KindReset)
	assert.Equal(t, []Field{FieldPassword, FieldPasswordConfirm}, names(reset))
	assert.Equal(t, "New Password", reset.Fields[0].Label)
	_, declared := reset.spec(FieldEmail)
	assert.False(t, declared)

	// callers get their own copy
	signup.Fields[0].Label = "changed"
	assert.Equal(t, "Username", DescriptorFor(KindSignup).Fields[0].Label)
}

func names(d Descriptor) []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, spec := range d.Fields {
		out = append(out, spec.Name)
	}
	return out
}
