package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/app/repositories"
	"github.com/shashiranjanraj/grocery/pkg/event"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/metrics"
)

// DefaultPaymentMethod is recorded against every checkout; payments are
// settled outside the shop.
const DefaultPaymentMethod = "cash_on_delivery"

// CartView is a user's cart with its grand total.
type CartView struct {
	Lines []models.Cart   `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// OrderDetail is an order with its items and payments.
type OrderDetail struct {
	models.Order
	Payments []models.Payment `json:"payments"`
}

// CartService manages carts, checkout and order history.
type CartService struct {
	store  *repositories.Store
	events *event.Dispatcher
	now    func() time.Time
}

// NewCartService wires the service. events may be nil.
func NewCartService(store *repositories.Store, events *event.Dispatcher) *CartService {
	return &CartService{store: store, events: events, now: time.Now}
}

// AddToCart puts qty units of a product into the user's cart, merging
// with an existing line. The merged quantity must not exceed stock.
// Stock is checked here but only reserved at checkout.
func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, invalid(map[string]string{"quantity": "The quantity must be at least 1."})
	}

	var line *models.Cart
	outcome := "added"
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		product, err := tx.Products.FindByID(ctx, productID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		existing, err := tx.Carts.Find(ctx, userID, productID)
		switch {
		case err == nil:
			if !product.CanAdd(existing.Quantity, qty) {
				return &StockError{ProductID: product.ID, Name: product.Name, Available: max(product.Quantity-existing.Quantity, 0), Requested: qty}
			}
			merged := existing.Quantity + qty
			existing.Quantity = merged
			existing.TotalPrice = product.LineTotal(merged)
			outcome = "merged"
			line = existing
			return tx.Carts.Update(ctx, existing)
		case !errors.Is(err, repositories.ErrNotFound):
			return err
		}

		if !product.InStock(qty) {
			return &StockError{ProductID: product.ID, Name: product.Name, Available: product.Quantity, Requested: qty}
		}
		line = &models.Cart{
			UserID:     userID,
			ProductID:  productID,
			Quantity:   qty,
			TotalPrice: product.LineTotal(qty),
		}
		return tx.Carts.Create(ctx, line)
	})

	switch {
	case errors.Is(err, ErrInsufficientStock):
		metrics.CartAdds.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	case errors.Is(err, ErrNotFound):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("services: add to cart: %w", err)
	}
	metrics.CartAdds.WithLabelValues(outcome).Inc()
	return line, nil
}

// RemoveFromCart deletes one cart line.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) error {
	err := s.store.Carts.Delete(ctx, userID, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("services: remove from cart: %w", err)
	}
	return nil
}

// ViewCart returns the cart lines and Σ price × quantity at current prices.
func (s *CartService) ViewCart(ctx context.Context, userID uint) (*CartView, error) {
	lines, err := s.store.Carts.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services: view cart: %w", err)
	}
	view := &CartView{Lines: lines, Total: decimal.Zero}
	for i := range lines {
		view.Total = view.Total.Add(lines[i].Product.LineTotal(lines[i].Quantity))
	}
	return view, nil
}

// Checkout turns the user's cart into one order inside a single
// transaction: stock is re-checked and decremented per line, item prices
// are captured at the current unit price and the cart is emptied. Any
// failure leaves cart, stock and orders untouched.
func (s *CartService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		lines, err := tx.Carts.ForCheckout(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = &models.Order{
			UserID:    userID,
			OrderDate: s.now().UTC(),
			Status:    models.OrderStatusPending,
			Items:     make([]models.OrderItem, 0, len(lines)),
		}
		total := decimal.Zero
		for _, line := range lines {
			product := line.Product
			short := &StockError{ProductID: product.ID, Name: product.Name, Available: product.Quantity, Requested: line.Quantity}
			if !product.InStock(line.Quantity) {
				return short
			}
			if err := tx.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repositories.ErrStockChanged) {
					return short
				}
				return err
			}
			item := models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				ItemPrice: product.Price,
			}
			total = total.Add(item.LineTotal())
			order.Items = append(order.Items, item)
		}
		order.TotalAmount = total

		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		payment := &models.Payment{
			OrderID:       order.ID,
			PaymentDate:   order.OrderDate,
			Amount:        total,
			PaymentMethod: DefaultPaymentMethod,
			Status:        models.PaymentStatusPending,
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return err
		}
		_, err = tx.Carts.Clear(ctx, userID)
		return err
	})

	switch {
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInsufficientStock):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("services: checkout: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderItems.Add(float64(len(order.Items)))
	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.ID, "user_id", userID, "items", len(order.Items), "total", order.TotalAmount.String())
	s.events.FireAsync(event.OrderPlaced, order)
	return order, nil
}

// OrderHistory lists every item the user bought, newest order first.
func (s *CartService) OrderHistory(ctx context.Context, userID uint) ([]models.OrderItem, error) {
	items, err := s.store.Orders.ItemsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services: order history: %w", err)
	}
	return items, nil
}

// Orders lists the user's orders with their items, newest first.
func (s *CartService) Orders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.store.Orders.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services: list orders: %w", err)
	}
	return orders, nil
}

// Order returns one of the user's orders. Orders of other users are
// reported as ErrNotFound.
func (s *CartService) Order(ctx context.Context, userID, orderID uint) (*OrderDetail, error) {
	order, err := s.store.Orders.FindByID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && order.UserID != userID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("services: get order: %w", err)
	}
	payments, err := s.store.Payments.ForOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("services: order payments: %w", err)
	}
	return &OrderDetail{Order: *order, Payments: payments}, nil
}
