// Package bind decodes and validates an HTTP request body into a struct.
//
// The body limit comes from Decoder.MaxBytes, else from the Limit
// middleware, else DefaultMaxBodyBytes. Unknown JSON fields are ignored.
package bind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/grocery/pkg/validate"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 4 << 20

// ErrEmptyBody is returned when the request carries no JSON document.
var ErrEmptyBody = errors.New("request body is empty")

// TypeError reports a JSON value of the wrong type, keyed by field path.
type TypeError struct {
	Fields map[string]string
}

func (e *TypeError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "invalid field type"
}

type limitKey struct{}

// Limit makes n the body limit for every Decoder without its own MaxBytes.
func Limit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), limitKey{}, n)))
		})
	}
}

// LimitFrom returns the limit set by Limit, or DefaultMaxBodyBytes.
func LimitFrom(ctx context.Context) int64 {
	if n, ok := ctx.Value(limitKey{}).(int64); ok {
		return n
	}
	return DefaultMaxBodyBytes
}

// Decoder reads JSON bodies up to MaxBytes.
type Decoder struct {
	MaxBytes int64
}

// JSON decodes r.Body into dest and runs tag validation plus checks.
// Returns (errs, nil) when there are validation failures and (nil, err)
// when the body is malformed or too large. A *TypeError is returned as
// validation failures.
func (d Decoder) JSON(w http.ResponseWriter, r *http.Request, dest interface{}, checks ...validate.Check) (map[string]string, error) {
	if err := d.Decode(w, r, dest); err != nil {
		var te *TypeError
		if errors.As(err, &te) {
			return te.Fields, nil
		}
		return nil, err
	}
	if errs := validate.All(dest, checks...); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Decode only decodes; callers that validate after normalising use it.
func (d Decoder) Decode(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	limit := d.MaxBytes
	if limit <= 0 {
		limit = LimitFrom(r.Context())
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := json.NewDecoder(r.Body).Decode(dest)
	if err == nil {
		return nil
	}
	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &TypeError{Fields: map[string]string{typeErr.Field: typeMessage(typeErr.Field, typeErr.Type)}}
	}
	return fmt.Errorf("invalid JSON: %w", err)
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func typeMessage(field string, t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return fmt.Sprintf("The %s has the wrong type.", field)
	}
	switch {
	case t == decimalType:
		return fmt.Sprintf("The %s must be a number.", field)
	case t.Kind() == reflect.String:
		return fmt.Sprintf("The %s must be a string.", field)
	case t.Kind() == reflect.Bool:
		return fmt.Sprintf("The %s must be true or false.", field)
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		return fmt.Sprintf("The %s must be an integer.", field)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return fmt.Sprintf("The %s must be a number.", field)
	}
	return fmt.Sprintf("The %s has the wrong type.", field)
}

// JSON decodes with the limit in the request context.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}, checks ...validate.Check) (map[string]string, error) {
	return Decoder{}.JSON(w, r, dest, checks...)
}
