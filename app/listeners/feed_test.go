package listeners

import (
	"testing"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/pkg/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ sent []interface{} }

func (r *recorder) BroadcastJSON(v interface{}) error {
	r.sent = append(r.sent, v)
	return nil
}

func TestAdminFeed(t *testing.T) {
	events := event.New()
	feed := &recorder{}
	AdminFeed(events, feed)

	events.Fire(event.OrderPlaced, &models.Order{
		ID: 4, UserID: 9, TotalAmount: decimal.RequireFromString("12.50"),
		Items: []models.OrderItem{{}, {}},
	})
	events.Fire(event.ProductDeleted, &models.Product{ID: 2, Name: "Milk", Quantity: 3})
	events.Fire(event.OrderPlaced, "not an order")

	require.Len(t, feed.sent, 2)
	order := feed.sent[0].(OrderNotice)
	assert.Equal(t, uint(4), order.OrderID)
	assert.Equal(t, 2, order.Items)
	assert.Equal(t, "12.5", order.Total.String())

	product := feed.sent[1].(ProductNotice)
	assert.Equal(t, event.ProductDeleted, product.Type)
	assert.Equal(t, "Milk", product.Name)
}
