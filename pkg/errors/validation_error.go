package pkgerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type ErrorEntity struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Errors []ErrorEntity
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation error"
	}

	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s %s", err.Name, err.Reason))
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))

	for _, err := range e.Errors {
		errs = append(errs, fmt.Errorf("%s: %s", err.Name, err.Reason))
	}

	return errs
}

// NewValidationError builds an error for a single field.
func NewValidationError(name, reason string) *ValidationError {
	return &ValidationError{Errors: []ErrorEntity{{Name: name, Reason: reason}}}
}

// NewValidationErrorFromOzzo flattens nested ozzo errors. Nested field names
// are joined with a dot and entries are sorted by name.
func NewValidationErrorFromOzzo(errs validation.Errors) *ValidationError {
	ve := &ValidationError{
		Errors: make([]ErrorEntity, 0, len(errs)),
	}

	if errs == nil {
		return ve
	}

	ve.parseValidationErrors("", errs)
	sort.Slice(ve.Errors, func(i, j int) bool {
		return ve.Errors[i].Name < ve.Errors[j].Name
	})
	return ve
}

// FromValidatable runs v.Validate and converts field errors into a
// ValidationError. Other errors are returned as is.
func FromValidatable(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if errors.As(err, &errs) {
		return NewValidationErrorFromOzzo(errs)
	}
	return err
}

func (ve *ValidationError) parseValidationErrors(prefix string, errs validation.Errors) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}

		name := field
		if prefix != "" {
			name = prefix + "." + field
		}

		var nested validation.Errors
		switch {
		case errors.As(fieldErr, &nested):
			ve.parseValidationErrors(name, nested)
		default:
			ve.Errors = append(ve.Errors, ErrorEntity{
				Name:   name,
				Reason: fieldErr.Error(),
			})
		}
	}
}
