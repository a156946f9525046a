package session

import (
	"context"
	"sync"

	"fwlens/internal/infer"
	"fwlens/pkg/schema"
)

// Result is the outcome of one inference request.
type Result struct {
	ID    uint64
	Specs []schema.Spec
	Err   error
}

// Runner executes inference requests in the background and emits their results
// on a channel, so the owner of the Session can apply them on its own goroutine.
type Runner struct {
	inferrer infer.Inferrer

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	eventCh chan Result
	stopCh  chan struct{}
	stopped bool
}

// NewRunner creates a runner for the given inferrer.
func NewRunner(inferrer infer.Inferrer) *Runner {
	return &Runner{
		inferrer: inferrer,
		eventCh:  make(chan Result, 4),
		stopCh:   make(chan struct{}),
	}
}

// Start runs request id in a new goroutine. A previous request still running is cancelled.
func (r *Runner) Start(ctx context.Context, id uint64, input string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer cancel()
		res := Result{ID: id}
		if r.inferrer == nil {
			res.Err = infer.ErrMissingAPIKey
		} else {
			res.Specs, res.Err = r.inferrer.InferSchema(ctx, input)
		}
		select {
		case r.eventCh <- res:
		case <-r.stopCh:
		}
	}()
}

// Cancel cancels the request in flight, if any. Its result is still delivered,
// carrying the context error.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Stop cancels any request and releases goroutines blocked on delivery.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
	}
	close(r.stopCh)
	r.mu.Unlock()
	r.wg.Wait()
}

// Events returns the channel on which results are delivered.
func (r *Runner) Events() <-chan Result {
	return r.eventCh
}
