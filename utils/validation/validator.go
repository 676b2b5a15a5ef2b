package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors maps each failing field to a readable message.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", e.Field())
		case "email":
			out[field] = "Invalid email format"
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
		case "lte":
			out[field] = fmt.Sprintf("%s must be less than or equal to %s", e.Field(), e.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", e.Field())
		}
	}
	return out
}

// SanitizeString removes null bytes and surrounding whitespace.
func SanitizeString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}
