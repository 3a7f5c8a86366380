package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/products/{id}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/42", nil))
	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/products/{id}", "404"))

	assert.Equal(t, before+1, after)
}

func TestHandlerServesBusinessMetrics(t *testing.T) {
	OrdersPlaced.Inc()
	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grocery_shop_orders_placed_total")
}

func TestFeedClientsReadsSource(t *testing.T) {
	ObserveFeedClients(func() int { return 3 })
	t.Cleanup(func() { ObserveFeedClients(func() int { return 0 }) })

	assert.Equal(t, 3.0, testutil.ToFloat64(FeedClients))
}
