package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolLogger sets the logger.
func WithPoolLogger(log *slog.Logger) PoolOption {
	return func(p *Pool) { p.log = log }
}

// Pool runs background dispatch work with bounded concurrency. Normal and
// low priority sends go through it so a burst cannot exhaust the process;
// retries come back through SubmitAfter.
type Pool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// NewPool creates a pool running at most size tasks concurrently.
func NewPool(size int, opts ...PoolOption) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		sem:    make(chan struct{}, size),
		ctx:    ctx,
		cancel: cancel,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// admit registers a task with the wait group unless the pool is stopping.
// Taken under the same lock Shutdown uses, so no task slips in after the
// drain has started.
func (p *Pool) admit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}
	p.wg.Add(1)
	return true
}

// Submit queues a task. The task receives the pool's context, which is
// cancelled when Shutdown's grace period expires.
func (p *Pool) Submit(task func(context.Context)) error {
	if !p.admit() {
		return ErrPoolStopped
	}

	go func() {
		defer p.wg.Done()
		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			task(p.ctx)
		case <-p.ctx.Done():
		}
	}()
	return nil
}

// SubmitAfter queues a task to run after the delay, used for retry backoff.
// Shutdown during the delay drops the task.
func (p *Pool) SubmitAfter(delay time.Duration, task func(context.Context)) error {
	if !p.admit() {
		return ErrPoolStopped
	}

	go func() {
		defer p.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-p.ctx.Done():
			return
		}

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			task(p.ctx)
		case <-p.ctx.Done():
		}
	}()
	return nil
}

// Shutdown stops accepting work and waits for in-flight tasks until ctx
// expires, then cancels whatever is left.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		p.log.LogAttrs(ctx, slog.LevelWarn, "worker pool shutdown timed out")
		return ctx.Err()
	}
}
