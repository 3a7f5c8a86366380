package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/pkg/event"
)

type fakeImages struct {
	saveErr error
	saved   []string
	deleted []string
}

func (f *fakeImages) Save(_ context.Context, r io.Reader, filename string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.ReadAll(r)
	name := "img-" + filename
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fakeImages) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
	return verr.Fields
}

func TestCreateProductKeepsExactValues(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var fired int
	f.events.Listen(event.ProductChanged, func(interface{}) { fired++ })

	in := productInput("Apple", "2.49", 40)
	in.ManufactureDate = strPtr("2026-01-01")
	in.ExpiryDate = strPtr("2026-02-15")
	p, err := f.catalog.CreateProduct(ctx, in, nil)
	require.NoError(t, err)

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(dec("2.49")), "price %s", got.Price)
	assert.Equal(t, 40, got.Quantity)
	assert.Equal(t, "Fruits", got.Category)
	require.NotNil(t, got.CategoryID)
	require.NotNil(t, got.ExpiryDate)
	assert.True(t, got.ExpiryDate.After(*got.ManufactureDate))
	assert.Equal(t, 1, fired)
}

func TestCreateProductValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	fields := validationFields(t, func() error {
		_, err := f.catalog.CreateProduct(ctx, ProductInput{}, nil)
		return err
	}())
	for _, name := range []string{"name", "description", "price", "quantity", "category"} {
		assert.Contains(t, fields, name)
	}

	in := productInput("Milk", "1.00", 5)
	in.ManufactureDate = strPtr("2026-03-10")
	in.ExpiryDate = strPtr("2026-03-10")
	_, err := f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "expiry_date")

	in = productInput("Milk", "-1", 5)
	_, err = f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "price")

	in = productInput("Milk", "1.00", -2)
	_, err = f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "quantity")

	in = productInput("Milk", "1.00", 2)
	in.Description = strPtr(strings.Repeat("x", 501))
	_, err = f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "description")

	in = productInput("Milk", "1.00", 2)
	in.Category = strPtr("Hardware")
	_, err = f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "category")

	in = productInput("Milk", "1.00", 2)
	in.ExpiryDate = strPtr("not a date")
	_, err = f.catalog.CreateProduct(ctx, in, nil)
	assert.Contains(t, validationFields(t, err), "expiry_date")

	all, err := f.catalog.ListProducts(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "failed validation must not write")
}

func TestCreateProductZeroStockAndPrice(t *testing.T) {
	f := setup(t)
	p := f.product(t, "Free sample", "0", 0)
	assert.True(t, p.Price.IsZero())
	assert.Equal(t, 0, p.Quantity)
}

func TestCreateProductImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	images := &fakeImages{}
	f.catalog.images = images

	p, err := f.catalog.CreateProduct(ctx, productInput("Pear", "1.10", 3),
		&Upload{Filename: "pear.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.Equal(t, "img-pear.png", *p.Image)

	images.saveErr = errors.New("disk full")
	p, err = f.catalog.CreateProduct(ctx, productInput("Plum", "1.10", 3),
		&Upload{Filename: "plum.png", Body: strings.NewReader("png")})
	require.NoError(t, err, "a failed upload does not abort creation")
	assert.Nil(t, p.Image)
}

func TestUpdateProductIsPartial(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := productInput("Apple", "2.49", 40)
	in.ManufactureDate = strPtr("2026-01-01")
	p, err := f.catalog.CreateProduct(ctx, in, nil)
	require.NoError(t, err)

	updated, err := f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Name: strPtr("Green apple")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Green apple", updated.Name)
	assert.True(t, updated.Price.Equal(dec("2.49")))
	assert.Equal(t, 40, updated.Quantity)

	_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{ExpiryDate: strPtr("2025-12-31")}, nil)
	assert.Contains(t, validationFields(t, err), "expiry_date", "expiry is checked against the stored manufacture date")

	_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Name: strPtr("")}, nil)
	assert.Contains(t, validationFields(t, err), "name")

	_, err = f.catalog.UpdateProduct(ctx, p.ID+99, ProductInput{Name: strPtr("x")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductReplacesImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	images := &fakeImages{}
	f.catalog.images = images

	p, err := f.catalog.CreateProduct(ctx, productInput("Pear", "1.10", 3),
		&Upload{Filename: "a.png", Body: strings.NewReader("a")})
	require.NoError(t, err)

	p, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{},
		&Upload{Filename: "b.png", Body: strings.NewReader("b")})
	require.NoError(t, err)
	assert.Equal(t, "img-b.png", *p.Image)
	assert.Equal(t, []string{"img-a.png"}, images.deleted)
}

func TestListProductsFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.product(t, "Apple", "1", 1)
	f.product(t, "Banana", "1", 1)
	milk := productInput("Whole milk", "1", 1)
	milk.Category = strPtr("Dairy")
	_, err := f.catalog.CreateProduct(ctx, milk, nil)
	require.NoError(t, err)

	dairy, err := f.catalog.ListProducts(ctx, repositories.ProductFilter{Category: "Dairy"})
	require.NoError(t, err)
	require.Len(t, dairy, 1)
	assert.Equal(t, "Whole milk", dairy[0].Name)

	found, err := f.catalog.ListProducts(ctx, repositories.ProductFilter{Search: "BAN"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Banana", found[0].Name)
}

func TestDeleteProduct(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Apple", "1", 1)

	require.NoError(t, f.catalog.DeleteProduct(ctx, p.ID))
	_, err := f.catalog.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.catalog.DeleteProduct(ctx, p.ID), ErrNotFound)
}

func TestCategoryCRUD(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Frozen"})
	require.NoError(t, err)

	_, err = f.catalog.CreateCategory(ctx, CategoryInput{Name: "Frozen"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.catalog.CreateCategory(ctx, CategoryInput{Name: " "})
	assert.Contains(t, validationFields(t, err), "name")

	_, err = f.catalog.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Dairy"})
	assert.ErrorIs(t, err, ErrConflict)

	c, err = f.catalog.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Frozen food"})
	require.NoError(t, err)
	assert.Equal(t, "Frozen food", c.Name)

	require.NoError(t, f.catalog.DeleteCategory(ctx, c.ID))
	_, err = f.catalog.GetCategory(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.catalog.DeleteCategory(ctx, c.ID), ErrNotFound)
}

func TestDeleteCategoryUnlinksProducts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.product(t, "Apple", "1", 1)

	require.NoError(t, f.catalog.DeleteCategory(ctx, *p.CategoryID))

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, "Fruits", got.Category)
}
