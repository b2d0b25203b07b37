package form

// Result is the outcome of validating one submitted form.
type Result struct {
	Kind   Kind
	Errors map[Field]string
	// Values holds the submitted value of every declared field.
	Values map[Field]string
}

func newResult(kind Kind) *Result {
	return &Result{
		Kind:   kind,
		Errors: make(map[Field]string),
		Values: make(map[Field]string),
	}
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Redisplay returns the values safe to send back to the client: password
// fields are left out.
func (r *Result) Redisplay() map[Field]string {
	descriptor := DescriptorFor(r.Kind)
	values := make(map[Field]string, len(r.Values))
	for field, value := range r.Values {
		if spec, ok := descriptor.spec(field); ok && spec.Type == "password" {
			continue
		}
		values[field] = value
	}
	return values
}
