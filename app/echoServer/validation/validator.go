package validation

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Raw exposes the underlying validator for controllers that validate
// request structs directly.
func (v *Validator) Raw() *validator.Validate {
	return v.v
}
