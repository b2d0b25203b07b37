package form

type FieldSpec struct {
	Name        Field  `json:"name"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
}

type Descriptor struct {
	Kind   Kind        `json:"form_type"`
	Title  string      `json:"form_title"`
	Button string      `json:"form_button"`
	Fields []FieldSpec `json:"form_fields"`
}

var (
	usernameField = FieldSpec{Name: FieldUsername, Type: "text", Placeholder: "Username", Label: "Username"}
	emailField    = FieldSpec{Name: FieldEmail, Type: "email", Placeholder: "Email", Label: "Email"}
	passwordField = FieldSpec{Name: FieldPassword, Type: "password", Placeholder: "Password", Label: "Password"}

	newPasswordField     = FieldSpec{Name: FieldPassword, Type: "password", Placeholder: "New Password", Label: "New Password"}
	confirmPasswordField = FieldSpec{Name: FieldPasswordConfirm, Type: "password", Placeholder: "Confirm Password", Label: "Confirm Password"}
)

var descriptors = map[Kind]Descriptor{
	KindSignup: {Kind: KindSignup, Title: "Sign Up", Button: "Sign Up",
		Fields: []FieldSpec{usernameField, emailField, passwordField, confirmPasswordField}},
	KindLogin: {Kind: KindLogin, Title: "Login", Button: "Login",
		Fields: []FieldSpec{emailField, passwordField}},
	KindForgot: {Kind: KindForgot, Title: "Confirm Email", Button: "Send Reset Link",
		Fields: []FieldSpec{emailField}},
	KindReset: {Kind: KindReset, Title: "Reset Password", Button: "Reset Password",
		Fields: []FieldSpec{newPasswordField, confirmPasswordField}},
}

// DescriptorFor returns the declared layout of a form kind. The field slice
// is a copy and may be modified by the caller.
func DescriptorFor(kind Kind) Descriptor {
	d := descriptors[kind]
	d.Fields = append([]FieldSpec(nil), d.Fields...)
	return d
}

func (d Descriptor) spec(field Field) (FieldSpec, bool) {
	for _, spec := range d.Fields {
		if spec.Name == field {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
