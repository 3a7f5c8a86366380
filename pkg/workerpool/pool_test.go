package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/grocery/pkg/workerpool"
)

func TestSubmitWaitRunsEveryTask(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(n), count.Load())
}

func TestSubmitWaitBlocksOnFullQueue(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() {
		close(started)
		<-blocker
	}))
	<-started

	// queue holds twice the worker count
	require.NoError(t, pool.SubmitWait(func() {}))
	require.NoError(t, pool.SubmitWait(func() {}))

	queued := make(chan struct{})
	go func() {
		_ = pool.SubmitWait(func() {})
		close(queued)
	}()
	select {
	case <-queued:
		t.Fatal("SubmitWait returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(blocker)
	select {
	case <-queued:
	case <-time.After(2 * time.Second):
		t.Fatal("SubmitWait never queued the task")
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.SubmitWait(func() {}), workerpool.ErrPoolClosed)
}

func TestPanickingTaskKeepsWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	require.NoError(t, pool.SubmitWait(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, pool.SubmitWait(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}
