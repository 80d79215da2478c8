package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskboard/internal/domain"
)

// MaxBodyBytes caps the size of a decoded request body.
const MaxBodyBytes = 1 << 20

// ErrTrailingData is returned when a request body holds more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// Global validator instance for reuse
var validate = newValidator()

// newValidator builds the request validator. Field errors are reported
// under their JSON names, and the "isodate" tag checks due dates.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return domain.IsValidDueDate(fl.Field().String())
	})

	return v
}

// DecodeJSON decodes the request body into the given struct.
// Bodies larger than MaxBodyBytes are rejected, and the body must hold
// exactly one JSON value. An empty body yields io.EOF.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return ErrTrailingData
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
