// Package service contains the task use cases. It wraps the task store
// (defined in internal/store) with existence checks and input validation,
// and publishes a task event after every successful mutation.
//
// Error handling:
//   - A missing task is reported as ErrTaskNotFound wrapped in a *TaskServiceError
//   - Invalid input is reported as a *domain.ValidationError
//   - Callers use errors.Is/errors.As; the API layer maps them to HTTP status codes
//
// The service layer depends on domain entities and the store interface, never
// on a specific store implementation.
package service
