package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BaseError is a coded error surfaced to collaborators. Field is set for
// validation errors that belong to a single input field and empty otherwise.
type BaseError struct {
	Code    string
	Message string
	Field   string
}

func (e *BaseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, field string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// ValidationErrors maps field names to the error describing why the field is
// invalid.
type ValidationErrors map[string]error

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}

// Fields flattens the per-field errors into a string map suitable for a JSON
// error response.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for field, err := range v {
		out[field] = err.Error()
	}
	return out
}

func NewFieldRequiredError(field string) *BaseError {
	return NewError("FIELD_REQUIRED", fmt.Sprintf("%s is required", field), field)
}

func NewInvalidFieldError(field, reason string) *BaseError {
	return NewError("FIELD_INVALID", reason, field)
}

// ProcessValidatorErrors converts go-playground validator errors into per-field
// coded errors.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fieldErr := range errs {
		field := fieldErr.Field()
		switch fieldErr.Tag() {
		case "required":
			out[field] = NewFieldRequiredError(field)
		default:
			out[field] = NewInvalidFieldError(
				field,
				fmt.Sprintf("%s failed validation on the %q rule", field, fieldErr.Tag()),
			)
		}
	}
	return out
}
