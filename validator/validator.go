// Package validator wraps go-playground/validator with the custom
// validations used by the payment API request types.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ridepay/payments-backend/internal"
)

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("currency", validateCurrency)

	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package. On failure it
// returns a ValidationErrors listing each offending field.
func (v *Validator) Validate(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var validationErrors ValidationErrors
	for _, fieldErr := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: getErrorMessage(fieldErr),
		})
	}
	return validationErrors
}

// validateCurrency checks the field holds a supported ISO currency code.
func validateCurrency(fl validator.FieldLevel) bool {
	// If the field is empty, it's valid (use required tag if it's required)
	if fl.Field().String() == "" {
		return true
	}
	return internal.ValidCurrency(fl.Field().String())
}

// ValidationError represents an individual validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// getErrorMessage returns a human-readable error message for a validation error.
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long", err.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", err.Param())
	case "currency":
		return "Unsupported currency code"
	case "numeric":
		return "Must contain only digits"
	default:
		return fmt.Sprintf("Invalid value: %s", err.Tag())
	}
}
