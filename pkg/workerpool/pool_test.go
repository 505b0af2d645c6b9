package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllSubmittedTasks(t *testing.T) {
	p := New("test", 2, 10)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
	}

	wg.Wait()
	require.Equal(t, int64(50), atomic.LoadInt64(&count))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
}

func TestPoolCallerRunsOnSaturation(t *testing.T) {
	p := New("test", 1, 0)

	// Occupy the single worker so the next Submit cannot be queued.
	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-block
	})
	<-started

	// With the worker busy and no queue capacity, this must run inline
	// on the calling goroutine, so Submit returns only after execution.
	ran := false
	p.Submit(func() { ran = true })
	require.True(t, ran)

	close(block)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
}

func TestPoolShutdownWaitsForInflightTasks(t *testing.T) {
	p := New("test", 1, 1)

	done := make(chan struct{})
	p.Submit(func() {
		time.Sleep(50 * time.Millisecond)
		close(done)
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	select {
	case <-done:
	default:
		t.Fatal("shutdown returned before in-flight task completed")
	}
}
