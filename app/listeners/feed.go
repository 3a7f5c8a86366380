// Package listeners subscribes to domain events at boot.
package listeners

import (
	"time"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/pkg/event"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shopspring/decimal"
)

// Broadcaster pushes a message to every connected feed client.
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}

// OrderNotice is the feed message for a placed order.
type OrderNotice struct {
	Type      string          `json:"type"`
	OrderID   uint            `json:"order_id"`
	UserID    uint            `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Items     int             `json:"items"`
	OrderDate time.Time       `json:"order_date"`
}

// ProductNotice is the feed message for a product change.
type ProductNotice struct {
	Type      string `json:"type"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// AdminFeed forwards orders and product changes to feed.
func AdminFeed(events *event.Dispatcher, feed Broadcaster) {
	events.Listen(event.OrderPlaced, func(payload interface{}) {
		o, ok := payload.(*models.Order)
		if !ok {
			return
		}
		send(feed, OrderNotice{
			Type:      event.OrderPlaced,
			OrderID:   o.ID,
			UserID:    o.UserID,
			Total:     o.TotalAmount,
			Items:     len(o.Items),
			OrderDate: o.OrderDate,
		})
	})

	product := func(name string) event.Handler {
		return func(payload interface{}) {
			p, ok := payload.(*models.Product)
			if !ok {
				return
			}
			send(feed, ProductNotice{Type: name, ProductID: p.ID, Name: p.Name, Quantity: p.Quantity})
		}
	}
	events.Listen(event.ProductChanged, product(event.ProductChanged))
	events.Listen(event.ProductDeleted, product(event.ProductDeleted))
}

func send(feed Broadcaster, v interface{}) {
	if err := feed.BroadcastJSON(v); err != nil {
		logger.Warn("feed: broadcast failed", "error", err)
	}
}
