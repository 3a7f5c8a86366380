package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Only Pending is assigned in-repo; transitions are future work.
const (
	OrderStatusPending = "Pending"
)

// Payment statuses.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
)

// Cart is one cart line: a (user, product) pair. TotalPrice caches
// Product.Price × Quantity and is recomputed whenever the line changes.
type Cart struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex:unique_cart_item" json:"user_id"`
	ProductID  uint            `gorm:"not null;uniqueIndex:unique_cart_item" json:"product_id"`
	User       *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Product    Product         `gorm:"constraint:OnDelete:CASCADE" json:"product"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// Order is a placed order. TotalAmount is the sum of its items' line totals
// at the time of purchase.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OrderDate   time.Time       `gorm:"not null;index" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status      string          `gorm:"size:20;not null;default:Pending" json:"status"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem is one purchased line. ItemPrice is the unit price captured at
// checkout and is never recomputed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Order     *Order          `json:"order,omitempty"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   Product         `gorm:"constraint:OnDelete:CASCADE" json:"product"`
	Quantity  int             `gorm:"not null;default:1" json:"quantity"`
	ItemPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"item_price"`
}

// LineTotal is ItemPrice × Quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.ItemPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Payment records a payment against an order.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	Order         *Order          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	Status        string          `gorm:"size:20;not null;default:Completed" json:"status"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Product{}, &Cart{},
		&Order{}, &OrderItem{}, &Address{}, &Payment{},
	}
}
