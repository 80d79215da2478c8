package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers may want to check for with errors.Is().
var (
	// ErrTaskNotFound indicates that no task exists with the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskServiceError is a custom error type for task service errors. It
// records which operation failed and for which task.
type TaskServiceError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("task service %s failed for task %s: %v", e.Operation, e.TaskID, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, taskID string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		TaskID:    taskID,
		Err:       err,
	}
}

// notFound builds the error returned when operation finds no task with id.
func notFound(operation, id string) error {
	return NewTaskServiceError(operation, id, ErrTaskNotFound)
}
