// Package services holds the shop's business rules. Services depend on the
// repositories Store and return the sentinel errors below; controllers map
// them onto HTTP statuses or flash messages.
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	ErrDuplicateEmail     = fmt.Errorf("%w: email address already registered", ErrConflict)
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingField       = errors.New("all fields are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
	// ErrUseAdminLogin is returned when an admin account signs in through
	// the user login.
	ErrUseAdminLogin = errors.New("admin accounts must use the admin login")
)

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid returns a *ValidationError for a non-empty field map, nil otherwise.
func invalid(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// StockError reports the product that ran short.
type StockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: %d available, %d requested", e.Name, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
