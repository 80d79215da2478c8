// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped in a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTitle is returned when a task title is missing or empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidPriority is returned when a priority is not low, medium or high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned when a status is not pending or completed.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDueDate is returned when a due date is not an ISO 8601 date or date-time.
	ErrInvalidDueDate = errors.New("invalid due date")
)

// ValidationError reports which field of an entity failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports every ValidationError as ErrValidation so callers can test the
// category without knowing the specific cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
