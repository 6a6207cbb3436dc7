package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request DTOs.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds the validator echo is configured with at startup.
// Validation errors report the json field name, not the Go one, so
// they read the same as the request body clients sent.
func New() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validate: v}
}

// Validate checks the struct's validation tags
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}
