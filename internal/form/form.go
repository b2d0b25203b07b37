// Package form describes the four entry forms of the site (login, signup,
// forgot password and reset password), validates submitted values against
// the user store and collects per-field errors for redisplay.
package form

type Kind string

const (
	KindLogin  Kind = "login"
	KindSignup Kind = "signup"
	KindForgot Kind = "forgot"
	KindReset  Kind = "reset"
)

type Field string

const (
	FieldUsername        Field = "username"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldPasswordConfirm Field = "password-confirm"
)

// Form is a submitted entry form. The set of implementations is closed:
// LoginForm, SignupForm, ForgotForm and ResetForm.
type Form interface {
	Kind() Kind
	// Value returns the submitted value of a field, or "" when the form
	// has no such field.
	Value(field Field) string
	sealed()
}

// LoginForm.StayLoggedIn is set from the "stay-logged-in" checkbox, which
// counts as checked whenever it is submitted with any value.
type LoginForm struct {
	Email        string `form:"email"`
	Password     string `form:"password"`
	StayLoggedIn bool   `form:"-"`
}

type SignupForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password-confirm"`
}

type ForgotForm struct {
	Email string `form:"email"`
}

// ResetForm carries the email recovered from a verified reset token.
// It is never bound from the request body.
type ResetForm struct {
	Email           string `form:"-"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password-confirm"`
}

func (LoginForm) Kind() Kind  { return KindLogin }
func (SignupForm) Kind() Kind { return KindSignup }
func (ForgotForm) Kind() Kind { return KindForgot }
func (ResetForm) Kind() Kind  { return KindReset }

func (LoginForm) sealed()  {}
func (SignupForm) sealed() {}
func (ForgotForm) sealed() {}
func (ResetForm) sealed()  {}

func (f LoginForm) Value(field Field) string {
	switch field {
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	}
	return ""
}

func (f SignupForm) Value(field Field) string {
	switch field {
	case FieldUsername:
		return f.Username
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldPasswordConfirm:
		return f.PasswordConfirm
	}
	return ""
}

func (f ForgotForm) Value(field Field) string {
	if field == FieldEmail {
		return f.Email
	}
	return ""
}

func (f ResetForm) Value(field Field) string {
	switch field {
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldPasswordConfirm:
		return f.PasswordConfirm
	}
	return ""
}
