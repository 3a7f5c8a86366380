package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/pkg/validate"
)

// AddressInput is a new shipping address.
type AddressInput struct {
	AddressLine1 string  `json:"address_line1" validate:"required,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"nullable,max=255"`
	City         string  `json:"city" validate:"required,max=50"`
	State        string  `json:"state" validate:"required,max=50"`
	PostalCode   string  `json:"postal_code" validate:"required,max=20"`
	Country      string  `json:"country" validate:"required,max=50"`
	IsDefault    bool    `json:"is_default"`
}

// AddressService manages a user's shipping addresses.
type AddressService struct {
	store *repositories.Store
}

func NewAddressService(store *repositories.Store) *AddressService {
	return &AddressService{store: store}
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	out, err := s.store.Addresses.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services: list addresses: %w", err)
	}
	return out, nil
}

// Add stores an address. A new default address replaces the previous one.
func (s *AddressService) Add(ctx context.Context, userID uint, in AddressInput) (*models.Address, error) {
	for _, f := range []*string{&in.AddressLine1, &in.City, &in.State, &in.PostalCode, &in.Country} {
		*f = strings.TrimSpace(*f)
	}
	if err := invalid(validate.Struct(&in)); err != nil {
		return nil, err
	}

	a := &models.Address{
		UserID:       userID,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		IsDefault:    in.IsDefault,
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if a.IsDefault {
			if err := tx.Addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return tx.Addresses.Create(ctx, a)
	})
	if err != nil {
		return nil, fmt.Errorf("services: add address: %w", err)
	}
	return a, nil
}

// Delete removes one of the user's addresses. Someone else's address
// gives ErrForbidden.
func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	owner, err := s.store.Addresses.Owner(ctx, id)
	if err == nil && owner != userID {
		return ErrForbidden
	}
	if err == nil {
		err = s.store.Addresses.Delete(ctx, userID, id)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("services: delete address: %w", err)
	}
	return nil
}
