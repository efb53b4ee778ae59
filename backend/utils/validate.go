package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request body against its struct tags. The returned
// error message goes straight back to the client as a 400.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
