package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/database/seeders"
	"github.com/shashiranjanraj/grocery/internal/testdb"
	"github.com/shashiranjanraj/grocery/pkg/auth"
	"github.com/shashiranjanraj/grocery/pkg/event"
)

const strongPassword = "Str0ng!Pass"

type fixture struct {
	store   *repositories.Store
	events  *event.Dispatcher
	auth    *AuthService
	catalog *CatalogService
	cart    *CartService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	require.NoError(t, seeders.SeedCategories(db))

	store := repositories.NewStore(db)
	events := event.New()
	return &fixture{
		store:   store,
		events:  events,
		auth:    NewAuthService(store, auth.NewTokens("test-secret", time.Hour)),
		catalog: NewCatalogService(store, nil, events),
		cart:    NewCartService(store, events),
	}
}

func (f *fixture) user(t *testing.T, email, role string) *models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name: "Test " + role, Email: email, Password: strongPassword, Role: role,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, name, price string, qty int) *models.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), productInput(name, price, qty), nil)
	require.NoError(t, err)
	return p
}

func productInput(name, price string, qty int) ProductInput {
	d := decimal.RequireFromString(price)
	return ProductInput{
		Name:        strPtr(name),
		Description: strPtr(name + " from the farm"),
		Price:       &d,
		Quantity:    &qty,
		Category:    strPtr("Fruits"),
	}
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
