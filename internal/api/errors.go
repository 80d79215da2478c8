package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/service"
)

var (
	// ErrMalformedJSON is returned when a request body is not valid JSON or
	// does not have the expected shape.
	ErrMalformedJSON = errors.New("malformed JSON body")

	// ErrBodyTooLarge is returned when a request body exceeds shared.MaxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, ErrMalformedJSON):
		return http.StatusBadRequest

	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error that
// reveals nothing about internal details.
func GetSafeErrorMessage(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound:
		return "Task not found"
	case http.StatusBadRequest:
		return "Invalid input"
	case http.StatusRequestEntityTooLarge:
		return "Request body too large"
	default:
		return "Internal Server Error"
	}
}

// HandleAPIError writes the response for err. Validation failures get the
// structured validation body; everything else gets a message body, with a
// stack trace when exposeStack is set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, exposeStack bool) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusBadRequest {
		shared.RespondWithValidationError(w, r, ValidationDetailsFromError(err), err)
		return
	}

	var opts []shared.ResponseOption
	// Oversized bodies are logged at WARN
	if status == http.StatusRequestEntityTooLarge {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	if exposeStack {
		opts = append(opts, shared.WithStack(shared.CaptureStack(err)))
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

// ValidationDetailsFromError flattens err into form-level and field-level
// messages.
func ValidationDetailsFromError(err error) shared.ValidationDetails {
	details := shared.NewValidationDetails()

	var verrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			details.AddFieldError(fieldName(fe), fieldErrorMessage(fe))
		}
	case errors.As(err, &typeErr):
		msg := fmt.Sprintf("Expected %s, received %s", jsonTypeName(typeErr.Type), typeErr.Value)
		if field := topLevelField(typeErr.Field); field != "" {
			details.AddFieldError(field, msg)
		} else {
			details.AddFormError(msg)
		}
	case errors.As(err, &domainErr) && domainErr.Field != "":
		details.AddFieldError(domainErr.Field, domainErr.Message)
	case errors.Is(err, ErrMalformedJSON):
		details.AddFormError("Request body must be valid JSON")
	default:
		details.AddFormError(err.Error())
	}

	return details
}

// fieldName strips any index suffix so element errors are reported under
// the collection field.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// fieldErrorMessage maps validation tags to user-friendly error messages
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		// Only collection elements can be present yet nil
		if strings.ContainsRune(fe.Field(), '[') {
			return "Expected string, received null"
		}
		return "Required"
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "oneof":
		options := strings.Fields(fe.Param())
		return fmt.Sprintf("Invalid enum value. Expected '%s', received '%v'",
			strings.Join(options, "' | '"), fe.Value())
	case "isodate":
		return "Invalid date, expected ISO 8601 date or date-time"
	default:
		return "Invalid value"
	}
}

// topLevelField returns the first segment of a dotted JSON field path.
func topLevelField(path string) string {
	field, _, _ := strings.Cut(path, ".")
	return field
}

// jsonTypeName names a Go type the way a JSON client would see it.
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}

// NotFoundHandler answers requests that match no route. The root path and
// the favicon get an empty 404 so browsers stay quiet.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.RequestURI()
	if path == "/" || path == "/favicon.ico" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNotFound, shared.RouteNotFoundResponse{
		Error:  "RouteNotFound",
		Method: r.Method,
		Path:   path,
	})
}
