package kit

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
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

type DecodeError struct {
	Message string
	Details any
	cause   error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error { return e.cause }

// DecodeJSON reads exactly one JSON object into dst, rejecting unknown fields,
// and then runs the `validate` struct tags on it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return &DecodeError{Message: "bad json", Details: map[string]any{"cause": err.Error()}, cause: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &DecodeError{Message: "bad json", Details: map[string]any{"cause": "extra data after json object"}}
	}

	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *DecodeError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &DecodeError{Message: "validation failed", cause: err}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = validationMessage(fe)
	}
	return &DecodeError{Message: "validation failed", Details: details, cause: err}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "mongodb":
		return "must be a 24-char hex object id"
	}
	return "is invalid"
}
