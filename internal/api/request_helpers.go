package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/query"
)

// decodeAndValidate decodes the JSON body into dst and validates it.
// An empty body is treated as an empty object, so missing required fields
// are reported individually.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := shared.DecodeJSON(w, r, dst); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
		case errors.As(err, &typeErr):
			return fmt.Errorf("%w: %w", ErrMalformedJSON, typeErr)
		default:
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
	}

	return validateRequest(dst)
}

// validateRequest runs the struct validator and tags failures as
// domain validation errors.
func validateRequest(v interface{}) error {
	if err := shared.ValidateRequest(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrValidation, verrs)
		}
		return err
	}
	return nil
}

// parseListQuery reads and validates the list query parameters.
// A parameter that is present but empty is kept as an empty value so that
// validation can reject it.
func parseListQuery(values url.Values) (query.Criteria, error) {
	q := ListTasksQuery{
		Q:        queryParam(values, "q"),
		Search:   queryParam(values, "search"),
		Status:   queryParam(values, "status"),
		Priority: queryParam(values, "priority"),
		Sort:     queryParam(values, "sort"),
		Order:    queryParam(values, "order"),
	}

	if err := validateRequest(q); err != nil {
		return query.Criteria{}, err
	}
	return q.ToCriteria(), nil
}

// queryParam returns the first value of key, or nil when key is absent.
func queryParam(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	v := values.Get(key)
	return &v
}
