package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("concurrent modification")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidDateFormat    = errors.New("invalid date format")
)

// Validation failure reasons reported to API clients.
const (
	ReasonMissingField = "missing_field"
	ReasonInvalidDate  = "invalid_date"
)

// ValidationError names the input field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonMissingField, Err: ErrMissingRequiredField}
}

func invalidDate(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonInvalidDate, Err: ErrInvalidDateFormat}
}
