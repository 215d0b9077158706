package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// BindError describes why a request body was rejected.
type BindError struct {
	Description string
	Fields      map[string]string
}

func (e *BindError) Error() string { return e.Description }

// Bind decodes a JSON body into T and validates it with its struct tags. It
// does not write a response.
func Bind[T any](r *http.Request) (T, error) {
	var value T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&value); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return value, &BindError{Description: "request body is empty"}
		case errors.As(err, &typeErr):
			return value, &BindError{
				Description: fmt.Sprintf("invalid type for field %q", typeErr.Field),
				Fields:      map[string]string{typeErr.Field: "invalid type"},
			}
		default:
			return value, &BindError{Description: "request body is not valid JSON"}
		}
	}

	if err := validate.Struct(value); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return value, &BindError{Description: err.Error()}
		}

		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required", "notblank":
				fields[fe.Field()] = "this field is required"
			case "min", "gte", "gt":
				fields[fe.Field()] = "value is too small (minimum " + fe.Param() + ")"
			default:
				fields[fe.Field()] = "invalid value"
			}
		}
		return value, &BindError{Description: "request validation failed", Fields: fields}
	}

	return value, nil
}

// BindAndValidate is Bind plus a 400 response on failure. errCode lets each
// endpoint keep its own error vocabulary.
func BindAndValidate[T any](w http.ResponseWriter, r *http.Request, errCode string) (T, bool) {
	value, err := Bind[T](r)
	if err != nil {
		var be *BindError
		if errors.As(err, &be) && len(be.Fields) > 0 {
			WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":             errCode,
				"error_description": be.Description,
				"fields":            be.Fields,
			})
			return value, false
		}
		WriteError(w, http.StatusBadRequest, errCode, err.Error())
		return value, false
	}
	return value, true
}
