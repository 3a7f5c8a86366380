// Package metrics provides Prometheus instrumentation: HTTP request
// metrics, database query latency through a gorm plugin and the shop's
// business counters.
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const namespace = "grocery"

// ─────────────────────────────────────────────
// HTTP metrics
// ─────────────────────────────────────────────

var (
	// RequestDuration is labelled by method, route pattern and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// DBQueryDuration is fed by GormPlugin.
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"},
	)
)

// ─────────────────────────────────────────────
// Business metrics
// ─────────────────────────────────────────────

var (
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shop",
		Name:      "orders_placed_total",
		Help:      "Orders created by checkout.",
	})

	OrderItems = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shop",
		Name:      "order_items_total",
		Help:      "Order items created by checkout.",
	})

	CartAdds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shop",
		Name:      "cart_adds_total",
		Help:      "Add-to-cart attempts by outcome.",
	}, []string{"outcome"}) // "added" | "merged" | "insufficient_stock"

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by entry point and outcome.",
	}, []string{"entry", "outcome"})
)

var feedClients atomic.Pointer[func() int]

// FeedClients reports the source set by ObserveFeedClients, or 0.
var FeedClients = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "feed",
	Name:      "clients",
	Help:      "Connected order feed websocket clients.",
}, func() float64 {
	if count := feedClients.Load(); count != nil {
		return float64((*count)())
	}
	return 0
})

// ObserveFeedClients makes count the source of FeedClients.
func ObserveFeedClients(count func() int) { feedClients.Store(&count) }

// DefaultRegistry holds every collector this package defines.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		DBQueryDuration,
		OrdersPlaced,
		OrderItems,
		CartAdds,
		Logins,
		FeedClients,
	)
}

// ─────────────────────────────────────────────
// HTTP middleware
// ─────────────────────────────────────────────

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack lets websocket upgrades through; the request counts as 101.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Middleware records duration, count and in-flight requests. Paths are
// labelled with the chi route pattern to keep cardinality bounded.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(http.ResponseWriter(rr), r)

			path := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				path = rc.RoutePattern()
			}
			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the registry on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ─────────────────────────────────────────────
// gorm plugin
// ─────────────────────────────────────────────

const startKey = "metrics:start"

// GormPlugin times every gorm operation into DBQueryDuration.
type GormPlugin struct{}

func (GormPlugin) Name() string { return "grocery:metrics" }

func (GormPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(startKey, time.Now()) }
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startKey); ok {
				if start, ok := v.(time.Time); ok {
					DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
				}
			}
		}
	}

	cb := db.Callback()
	steps := []struct {
		op     string
		before error
		after  error
	}{
		{"create", cb.Create().Before("gorm:create").Register("metrics:before_create", before),
			cb.Create().After("gorm:create").Register("metrics:after_create", after("create"))},
		{"query", cb.Query().Before("gorm:query").Register("metrics:before_query", before),
			cb.Query().After("gorm:query").Register("metrics:after_query", after("query"))},
		{"update", cb.Update().Before("gorm:update").Register("metrics:before_update", before),
			cb.Update().After("gorm:update").Register("metrics:after_update", after("update"))},
		{"delete", cb.Delete().Before("gorm:delete").Register("metrics:before_delete", before),
			cb.Delete().After("gorm:delete").Register("metrics:after_delete", after("delete"))},
		{"raw", cb.Raw().Before("gorm:raw").Register("metrics:before_raw", before),
			cb.Raw().After("gorm:raw").Register("metrics:after_raw", after("raw"))},
	}
	for _, s := range steps {
		if s.before != nil {
			return s.before
		}
		if s.after != nil {
			return s.after
		}
	}
	return nil
}
