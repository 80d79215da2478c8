package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/phrazzld/taskboard/internal/redact"
)

// ValidationErrorCode is the machine-readable code of every validation failure.
const ValidationErrorCode = "VALIDATION_ERROR"

// ErrorResponse is the body of not-found and internal errors.
// Stack is only filled outside production.
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ValidationDetails lists validation problems that concern the request as a
// whole (FormErrors) and those tied to a single field (FieldErrors).
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// NewValidationDetails returns empty, non-nil details.
func NewValidationDetails() ValidationDetails {
	return ValidationDetails{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}
}

// AddFormError records a problem with the request as a whole.
func (d *ValidationDetails) AddFormError(msg string) {
	d.FormErrors = append(d.FormErrors, msg)
}

// AddFieldError records a problem with one field.
func (d *ValidationDetails) AddFieldError(field, msg string) {
	d.FieldErrors[field] = append(d.FieldErrors[field], msg)
}

// ValidationErrorBody is the payload inside ValidationErrorResponse.
type ValidationErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details ValidationDetails `json:"details"`
}

// ValidationErrorResponse is the body of a 400 response.
type ValidationErrorResponse struct {
	Error ValidationErrorBody `json:"error"`
}

// RouteNotFoundResponse is the body returned for unmatched routes.
type RouteNotFoundResponse struct {
	Error  string `json:"error"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
	stack           string
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithStack returns a ResponseOption that includes stack in the response body.
// An empty stack is ignored.
func WithStack(stack string) ResponseOption {
	return func(opts *responseOptions) {
		opts.stack = stack
	}
}

// CaptureStack renders err followed by the current goroutine's stack.
func CaptureStack(err error) string {
	return fmt.Sprintf("%v\n%s", err, debug.Stack())
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithErrorAndLog writes an ErrorResponse carrying only userMessage
// and logs the detailed error.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level
// - WithElevatedLogLevel raises 4xx errors to WARN
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logError(r, status, userMessage, err, responseOpts)

	RespondWithJSON(w, r, status, ErrorResponse{
		Message: userMessage,
		Stack:   responseOpts.stack,
	})
}

// RespondWithValidationError writes a 400 response with the given details.
func RespondWithValidationError(
	w http.ResponseWriter,
	r *http.Request,
	details ValidationDetails,
	err error,
) {
	logError(r, http.StatusBadRequest, "Invalid input", err, responseOptions{})

	RespondWithJSON(w, r, http.StatusBadRequest, ValidationErrorResponse{
		Error: ValidationErrorBody{
			Code:    ValidationErrorCode,
			Message: "Invalid input",
			Details: details,
		},
	})
}

func logError(r *http.Request, status int, userMessage string, err error, opts responseOptions) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	// Only the redacted error reaches the logs
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if opts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)
}
