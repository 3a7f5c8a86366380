package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/pkg/event"
)

func TestAddToCartMergesLines(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 10)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	line, err := f.cart.AddToCart(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.TotalPrice.Equal(dec("2.50")))

	view, err := f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.True(t, view.Total.Equal(dec("2.50")))
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 4)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	view, err := f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "cart unchanged")

	_, err = f.cart.AddToCart(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, u.ID, p.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock, "merged quantity is checked too")

	view, err = f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)
}

func TestAddToCartCannotOverflowMergedQuantity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 10)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 5)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, u.ID, p.ID, math.MaxInt64-2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	_, err = f.cart.AddToCart(ctx, u.ID, p.ID, math.MaxInt)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	view, err := f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.True(t, view.Total.Equal(dec("2.50")))
}

func TestCheckoutRejectsNonPositiveLine(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 10)

	bad := models.Cart{UserID: u.ID, ProductID: p.ID, Quantity: -3, TotalPrice: dec("-1.50")}
	require.NoError(t, f.store.DB().Create(&bad).Error)

	_, err := f.cart.Checkout(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "stock untouched")
	orders, err := f.cart.Orders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestConcurrentCheckoutOfLastUnit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", models.RoleUser)
	bob := f.user(t, "bob@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 1)

	for _, u := range []*models.User{alice, bob} {
		_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, u := range []*models.User{alice, bob} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = f.cart.Checkout(ctx, userID)
		}(i, u.ID)
	}
	wg.Wait()
	f.events.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientStock)
	}
	assert.Equal(t, 1, placed, "exactly one shopper gets the last unit")

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestAddToCartInputErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 4)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 0)
	assert.Contains(t, validationFields(t, err), "quantity")

	_, err = f.cart.AddToCart(ctx, u.ID, p.ID+50, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewEmptyCart(t *testing.T) {
	f := setup(t)
	u := f.user(t, "shopper@example.com", models.RoleUser)

	view, err := f.cart.ViewCart(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestRemoveFromCart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 4)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.cart.RemoveFromCart(ctx, u.ID, p.ID))
	assert.ErrorIs(t, f.cart.RemoveFromCart(ctx, u.ID, p.ID), ErrNotFound)
}

func TestCheckoutCreatesOneOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	apple := f.product(t, "Apple", "0.50", 10)
	bread := f.product(t, "Bread", "2.25", 3)

	var placed *models.Order
	f.events.Listen(event.OrderPlaced, func(p interface{}) { placed = p.(*models.Order) })

	_, err := f.cart.AddToCart(ctx, u.ID, apple.ID, 4)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, u.ID, bread.ID, 2)
	require.NoError(t, err)

	order, err := f.cart.Checkout(ctx, u.ID)
	require.NoError(t, err)
	f.events.Wait()
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("6.50")), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Same(t, order, placed)

	view, err := f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "cart is emptied")

	got, err := f.catalog.GetProduct(ctx, apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity, "stock decremented")
	got, err = f.catalog.GetProduct(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	detail, err := f.cart.Order(ctx, u.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	for _, item := range detail.Items {
		switch item.ProductID {
		case apple.ID:
			assert.True(t, item.ItemPrice.Equal(dec("0.50")))
			assert.Equal(t, 4, item.Quantity)
		case bread.ID:
			assert.True(t, item.ItemPrice.Equal(dec("2.25")))
		}
	}
	require.Len(t, detail.Payments, 1)
	assert.True(t, detail.Payments[0].Amount.Equal(dec("6.50")))
}

func TestCheckoutCapturesCurrentPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	p := f.product(t, "Apple", "0.50", 10)

	_, err := f.cart.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	price := dec("0.75")
	_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Price: &price}, nil)
	require.NoError(t, err)

	order, err := f.cart.Checkout(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec("1.50")))
	assert.True(t, order.Items[0].ItemPrice.Equal(dec("0.75")))

	// Later price changes do not touch the order.
	price = dec("9.99")
	_, err = f.catalog.UpdateProduct(ctx, p.ID, ProductInput{Price: &price}, nil)
	require.NoError(t, err)
	detail, err := f.cart.Order(ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.True(t, detail.Items[0].ItemPrice.Equal(dec("0.75")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)

	_, err := f.cart.Checkout(ctx, u.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	orders, err := f.cart.Orders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutRollsBackOnShortStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, "shopper@example.com", models.RoleUser)
	apple := f.product(t, "Apple", "0.50", 10)
	bread := f.product(t, "Bread", "2.25", 3)

	_, err := f.cart.AddToCart(ctx, u.ID, apple.ID, 4)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, u.ID, bread.ID, 3)
	require.NoError(t, err)

	// Someone else bought bread in the meantime.
	one := 1
	_, err = f.catalog.UpdateProduct(ctx, bread.ID, ProductInput{Quantity: &one}, nil)
	require.NoError(t, err)

	_, err = f.cart.Checkout(ctx, u.ID)
	var short *StockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, bread.ID, short.ProductID)

	got, err := f.catalog.GetProduct(ctx, apple.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "stock restored by rollback")

	view, err := f.cart.ViewCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2, "cart untouched")

	orders, err := f.cart.Orders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderHistoryIsSortedAndPrivate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", models.RoleUser)
	bob := f.user(t, "bob@example.com", models.RoleUser)
	apple := f.product(t, "Apple", "0.50", 100)
	bread := f.product(t, "Bread", "2.25", 100)

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	f.cart.now = func() time.Time { return clock }

	buy := func(userID, productID uint) *models.Order {
		_, err := f.cart.AddToCart(ctx, userID, productID, 1)
		require.NoError(t, err)
		o, err := f.cart.Checkout(ctx, userID)
		require.NoError(t, err)
		clock = clock.Add(time.Hour)
		return o
	}
	first := buy(alice.ID, apple.ID)
	buy(bob.ID, apple.ID)
	second := buy(alice.ID, bread.ID)

	items, err := f.cart.OrderHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].OrderID, "newest first")
	assert.Equal(t, first.ID, items[1].OrderID)
	assert.Equal(t, "Bread", items[0].Product.Name)

	orders, err := f.cart.Orders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)

	_, err = f.cart.Order(ctx, bob.ID, first.ID)
	assert.ErrorIs(t, err, ErrNotFound, "orders of other users are hidden")
}
