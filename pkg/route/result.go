package route

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Result is the one-shot future associated with an entry instance. It is
// created when the entry's Result method is first called (the containers do
// so when accepting an entry) and completed exactly once: with a value when
// the popped entry's outcome is delivered, or silently with nil when the
// entry is superseded, displaced, or cleared.
//
// Completing an already-completed Result is a no-op that reports false;
// it never panics and never re-notifies waiters.
type Result struct {
	completed atomic.Bool

	mu     sync.Mutex
	value  any
	silent bool

	done chan struct{}
}

// NewResult returns a pending Result.
func NewResult() *Result {
	return &Result{done: make(chan struct{})}
}

// Complete resolves the result with the given value. It reports whether
// this call performed the completion; false means the result was already
// completed and nothing changed.
func (r *Result) Complete(value any) bool {
	return r.complete(value, false)
}

// CompleteSilently resolves the result with a nil value and marks it
// silent: the entry never reached, or never left, a stack in a way that
// produces an outcome. No-op if already completed.
func (r *Result) CompleteSilently() bool {
	return r.complete(nil, true)
}

func (r *Result) complete(value any, silent bool) bool {
	r.mu.Lock()
	if r.completed.Load() {
		r.mu.Unlock()
		return false
	}
	r.value = value
	r.silent = silent
	r.completed.Store(true)
	r.mu.Unlock()
	close(r.done)
	return true
}

// Completed reports whether the result has resolved.
func (r *Result) Completed() bool {
	return r.completed.Load()
}

// Done returns a channel closed when the result resolves.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the result resolves or ctx is done, returning the
// completion value.
func (r *Result) Wait(ctx context.Context) (any, error) {
	select {
	case <-r.done:
		return r.Value(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Value returns the completion value, or nil while pending.
func (r *Result) Value() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Silent reports whether the result completed silently (nil value, no
// outcome to deliver). False while pending.
func (r *Result) Silent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.silent
}
