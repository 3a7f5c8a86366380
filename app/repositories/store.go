// Package repositories is the persistence layer: one interface per entity
// plus a gorm implementation. Store groups them so a service can run several
// repositories inside one transaction.
package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repositories: record not found")
	// ErrDuplicate is returned when an insert or update violates a unique index.
	ErrDuplicate = errors.New("repositories: duplicate key")
	// ErrStockChanged is returned by DecrementStock when fewer units remain than requested.
	ErrStockChanged = errors.New("repositories: not enough stock")
)

// Store bundles every repository over one *gorm.DB.
type Store struct {
	db *gorm.DB

	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository
	Addresses  AddressRepository
	Payments   PaymentRepository
}

// NewStore builds a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      &userRepository{db: db},
		Categories: &categoryRepository{db: db},
		Products:   &productRepository{db: db},
		Carts:      &cartRepository{db: db},
		Orders:     &orderRepository{db: db},
		Addresses:  &addressRepository{db: db},
		Payments:   &paymentRepository{db: db},
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation catches drivers without an error translator.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
