package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their form or json name.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Messages flattens validator errors into a field -> message map.
// It returns nil when err is not a validation error.
func Messages(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		out[e.Field()] = message(e)
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "Enter a valid email"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Minimum %s characters", e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("Maximum %s characters", e.Param())
	case "eqfield":
		return "Passwords do not match"
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
