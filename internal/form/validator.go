package form

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/qs-lzh/movie-list/internal/model"
)

// Messages shown next to a failing field.
const (
	MsgUsernameTooShort = "Username must be at least 2 characters"
	MsgUsernameTooLong  = "Username must be at most 64 characters"
	MsgUsernameTaken    = "Username already exists"
	MsgEmailInvalid     = "Not a valid email"
	MsgEmailTaken       = "Email already in use"
	MsgEmailNotFound    = "Email not found"
	MsgPasswordWrong    = "Incorrect password"
	MsgPasswordWeak     = "Password must be at least 7 characters and contain at least one uppercase letter, digit, and special character(@$!%*?&)."
	MsgPasswordReused   = "The new password cannot be the same as a previously used password"
	MsgPasswordMismatch = "Passwords must match"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 64 // users.username column size
	minPasswordLength = 7
	passwordSymbols   = "@$!%*?&"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9]+\.[a-zA-Z0-9.-]+$`)

// UserLookup is the read side of the user store needed by validation.
// Missing rows are reported as gorm.ErrRecordNotFound.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type PasswordVerifier interface {
	Verify(password, encodedHash string) (bool, error)
}

type Validator struct {
	users  UserLookup
	hasher PasswordVerifier
}

func NewValidator(users UserLookup, hasher PasswordVerifier) *Validator {
	return &Validator{
		users:  users,
		hasher: hasher,
	}
}

// Validate checks every declared field of the form, in declaration order,
// without stopping at the first failure. The error is non-nil only when the
// store could not be queried.
func (v *Validator) Validate(ctx context.Context, f Form) (*Result, error) {
	descriptor := DescriptorFor(f.Kind())
	result := newResult(f.Kind())

	for _, spec := range descriptor.Fields {
		result.Values[spec.Name] = f.Value(spec.Name)

		msg, err := v.ValidateField(ctx, f, spec.Name)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			result.Errors[spec.Name] = msg
		}
	}
	return result, nil
}

// ValidateField returns the error message for one field, or "" when the field is valid.
func (v *Validator) ValidateField(ctx context.Context, f Form, field Field) (string, error) {
	switch field {
	case FieldUsername:
		return v.validateUsername(ctx, f.Value(FieldUsername))
	case FieldEmail:
		if f.Kind() == KindReset {
			return "", nil
		}
		return v.validateEmail(ctx, f.Kind(), f.Value(FieldEmail))
	case FieldPassword:
		return v.validatePassword(ctx, f)
	case FieldPasswordConfirm:
		confirm := f.Value(FieldPasswordConfirm)
		if confirm == "" || confirm != f.Value(FieldPassword) {
			return MsgPasswordMismatch, nil
		}
	}
	return "", nil
}

func (v *Validator) validateUsername(ctx context.Context, username string) (string, error) {
	switch n := utf8.RuneCountInString(username); {
	case n < minUsernameLength:
		return MsgUsernameTooShort, nil
	case n > maxUsernameLength:
		return MsgUsernameTooLong, nil
	}
	exists, err := found(v.users.GetByUsername(ctx, username))
	if err != nil {
		return "", err
	}
	if exists {
		return MsgUsernameTaken, nil
	}
	return "", nil
}

// validateEmail requires an unregistered address on signup and a registered one everywhere else.
func (v *Validator) validateEmail(ctx context.Context, kind Kind, email string) (string, error) {
	if !IsValidEmail(email) {
		return MsgEmailInvalid, nil
	}
	exists, err := found(v.users.GetByEmail(ctx, email))
	if err != nil {
		return "", err
	}
	if kind == KindSignup {
		if exists {
			return MsgEmailTaken, nil
		}
	} else if !exists {
		return MsgEmailNotFound, nil
	}
	return "", nil
}

func (v *Validator) validatePassword(ctx context.Context, f Form) (string, error) {
	password := f.Value(FieldPassword)

	if f.Kind() == KindLogin {
		email := f.Value(FieldEmail)
		if email == "" {
			return "", nil
		}
		user, err := v.users.GetByEmail(ctx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// reported on the email field
			return "", nil
		}
		if err != nil {
			return "", err
		}
		ok, err := v.hasher.Verify(password, user.PasswordHash)
		if err != nil || !ok {
			return MsgPasswordWrong, nil
		}
		return "", nil
	}

	if !IsStrongPassword(password) {
		return MsgPasswordWeak, nil
	}

	if f.Kind() == KindReset && f.Value(FieldEmail) != "" {
		user, err := v.users.GetByEmail(ctx, f.Value(FieldEmail))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if same, _ := v.hasher.Verify(password, user.PasswordHash); same {
			return MsgPasswordReused, nil
		}
	}
	return "", nil
}

// IsStrongPassword reports whether password is at least 7 characters long,
// uses only letters, digits and the symbols @$!%*?&, and contains at least
// one uppercase letter, one digit and one of those symbols.
func IsStrongPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return upper && digit && symbol
}

// IsValidEmail reports whether email has a local part, an @ and a dotted domain.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func found(user *model.User, err error) (bool, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
