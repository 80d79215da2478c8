package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	// Code is VALIDATION_ERROR or RouteNotFound when the server sent one.
	Code    string
	Message string
	// FieldErrors holds per-field validation messages.
	FieldErrors map[string][]string
	// FormErrors holds validation messages about the request as a whole.
	FormErrors []string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error (%d)", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(&b, "; %s: %s", field, strings.Join(e.FieldErrors[field], ", "))
	}
	for _, msg := range e.FormErrors {
		fmt.Fprintf(&b, "; %s", msg)
	}
	return b.String()
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorBody covers the three error shapes the server sends.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Method  string          `json:"method"`
	Path    string          `json:"path"`
}

type validationBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details struct {
		FormErrors  []string            `json:"formErrors"`
		FieldErrors map[string][]string `json:"fieldErrors"`
	} `json:"details"`
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.Message = body.Message

	var routeErr string
	var validation validationBody
	switch {
	case len(body.Error) == 0:
	case json.Unmarshal(body.Error, &routeErr) == nil:
		apiErr.Code = routeErr
		apiErr.Message = fmt.Sprintf("%s %s not found", body.Method, body.Path)
	case json.Unmarshal(body.Error, &validation) == nil:
		apiErr.Code = validation.Code
		apiErr.Message = validation.Message
		apiErr.FieldErrors = validation.Details.FieldErrors
		apiErr.FormErrors = validation.Details.FormErrors
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
