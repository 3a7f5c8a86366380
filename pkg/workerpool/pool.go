// Package workerpool is a bounded goroutine pool. The event dispatcher
// runs its asynchronous listeners on one so a burst of checkouts cannot
// start an unbounded number of feed broadcasts.
//
//	pool := workerpool.New(4)
//	defer pool.Shutdown()
//	err := pool.SubmitWait(task) // ErrPoolClosed after Shutdown
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/grocery/pkg/logger"
)

// ErrPoolClosed is returned by SubmitWait after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed; senders hold it shared so Shutdown never closes
	// tasks under a pending send.
	mu     sync.RWMutex
	closed bool
}

// New starts size workers. The queue holds twice as many tasks.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{tasks: make(chan func(), size*2)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// SubmitWait blocks until the task is queued.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// Shutdown stops accepting tasks and waits for the queued ones to finish.
// Calling it again is a no-op.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun keeps a panicking task from taking its worker down.
func safeRun(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workerpool: task panicked", "panic", rec)
		}
	}()
	task()
}
