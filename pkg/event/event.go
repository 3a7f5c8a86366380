// Package event is a small in-process event dispatcher. Services fire
// domain events by name; listeners such as the websocket order feed
// subscribe at boot.
package event

import (
	"sync"

	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/workerpool"
)

// Event names.
const (
	OrderPlaced    = "order.placed"
	ProductChanged = "product.changed"
	ProductDeleted = "product.deleted"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Dispatcher routes events to listeners. The zero value is ready to use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	pool     *workerpool.Pool
}

// New returns an empty Dispatcher.
func New() *Dispatcher { return &Dispatcher{} }

// UsePool runs FireAsync handlers on pool instead of fresh goroutines.
func (d *Dispatcher) UsePool(pool *workerpool.Pool) { d.pool = pool }

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = map[string][]Handler{}
	}
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) snapshot(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all listeners.
func (d *Dispatcher) Fire(event string, payload interface{}) {
	if d == nil {
		return
	}
	for _, h := range d.snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to each listener off the caller's
// goroutine.
func (d *Dispatcher) FireAsync(event string, payload interface{}) {
	if d == nil {
		return
	}
	for _, h := range d.snapshot(event) {
		h := h
		d.wg.Add(1)
		task := func() {
			defer d.wg.Done()
			h(payload)
		}
		if d.pool == nil {
			go task()
			continue
		}
		if err := d.pool.SubmitWait(task); err != nil {
			// pool already shut down
			logger.Warn("event: dropped async handler", "event", event, "error", err)
			d.wg.Done()
		}
	}
}

// Wait blocks until every FireAsync handler has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Flush removes all listeners.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}
