package workerpool

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Pool is a fixed-size worker pool with a bounded queue.
// When the queue is full, Submit runs the task on the calling
// goroutine instead of blocking or dropping it. This mirrors a
// caller-runs rejection policy: under saturation the submitter
// is slowed down, but no work is ever lost.
type Pool struct {
	name  string
	tasks chan func()

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a pool with the given number of workers and queue capacity
// and starts the workers immediately.
func New(name string, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	p := &Pool{
		name:  name,
		tasks: make(chan func(), queueSize),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	log.Info().
		Str("pool", name).
		Int("workers", workers).
		Int("queue_size", queueSize).
		Msg("Worker pool started")

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("pool", p.name).
				Interface("panic", r).
				Msg("Worker pool task panicked")
		}
	}()
	task()
}

// Submit enqueues task for execution. If the queue is full the task
// runs synchronously on the caller's goroutine (caller-runs policy).
func (p *Pool) Submit(task func()) {
	select {
	case p.tasks <- task:
	default:
		log.Debug().Str("pool", p.name).Msg("Worker pool saturated, running task on caller")
		p.run(task)
	}
}

// Shutdown stops accepting work and waits for in-flight tasks to finish
// or for ctx to expire, whichever comes first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Str("pool", p.name).Msg("Worker pool stopped")
		return nil
	case <-ctx.Done():
		log.Warn().Str("pool", p.name).Msg("Worker pool shutdown timed out")
		return ctx.Err()
	}
}
