package corochan

import (
	"context"
	"sync"
)

// FutureState is the lifecycle state of a [Future]. A future starts
// Pending and transitions to exactly one of Completed or Failed;
// transitions are irreversible.
type FutureState int32

const (
	Pending FutureState = iota
	Completed
	Failed
)

func (s FutureState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Future is a single-assignment cell offering complete(value),
// completeExceptionally(error), get() (blocking wait), and
// whenComplete(callback). Adapted from the teacher's promise.go (mutex +
// fan-out-to-subscribers), generalized to a typed Future[T] with a
// context-aware Get.
type Future[T any] struct {
	mu          sync.Mutex
	state       FutureState
	value       T
	err         error
	subscribers []func(T, error)
}

// NewFuture returns a new, Pending Future.
func NewFuture[T any]() *Future[T] { return &Future[T]{} }

// State returns the current FutureState.
func (f *Future[T]) State() FutureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Complete fulfills the future with v. Calling Complete (or
// CompleteExceptionally) on an already-settled future has no effect;
// returns true iff this call settled it.
func (f *Future[T]) Complete(v T) bool {
	return f.settle(Completed, v, nil)
}

// CompleteExceptionally fails the future with err.
func (f *Future[T]) CompleteExceptionally(err error) bool {
	var zero T
	return f.settle(Failed, zero, err)
}

func (f *Future[T]) settle(state FutureState, v T, err error) bool {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.value = v
	f.err = err
	subs := f.subscribers
	f.subscribers = nil
	f.mu.Unlock()

	for _, cb := range subs {
		cb(v, err)
	}
	return true
}

// WhenComplete registers a callback invoked exactly once when the future
// settles. If the future is already settled, the callback runs inline,
// synchronously, before WhenComplete returns.
func (f *Future[T]) WhenComplete(cb func(T, error)) {
	f.mu.Lock()
	if f.state == Pending {
		f.subscribers = append(f.subscribers, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

// Get blocks until the future settles or ctx is done, whichever comes
// first.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	f.WhenComplete(func(v T, err error) {
		done <- result{v, err}
	})
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
