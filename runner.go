package corochan

import (
	"context"

	"github.com/ygrebnov/workers"
)

// Runner dispatches callback invocations either inline, on the caller's
// goroutine (Synchronous), or by submitting to an executor. Channel code
// must not know or care which: Synchronous is useful for deterministic
// tests, while an executor-backed Runner avoids unbounded stack recursion
// under back-to-back rendezvous.
type Runner interface {
	Run(fn func())
}

type synchronousRunner struct{}

func (synchronousRunner) Run(fn func()) { fn() }

// Synchronous invokes callbacks inline on the caller's goroutine. Callers
// supplying Synchronous must accept that a Send may trigger arbitrary
// user code on their own stack.
var Synchronous Runner = synchronousRunner{}

// executorRunner submits callbacks to a pack-sourced worker pool instead
// of running them inline.
type executorRunner struct {
	pool workers.Workers[struct{}]
}

// NewExecutorRunner wraps an already-constructed workers.Workers pool as
// a Runner, giving the abstract notion of a thread-pool dispatcher a
// concrete implementation. The pool is not started by NewExecutorRunner;
// either construct it with workers.WithStartImmediately() or call Start
// before the first Run.
func NewExecutorRunner(pool workers.Workers[struct{}]) Runner {
	return &executorRunner{pool: pool}
}

func (r *executorRunner) Run(fn func()) {
	_ = r.pool.AddTask(func(context.Context) struct{} {
		fn()
		return struct{}{}
	})
}

// NewFixedExecutorRunner constructs, starts, and wraps a fixed-size
// workers.Workers pool of n workers as a Runner.
func NewFixedExecutorRunner(ctx context.Context, n uint) Runner {
	pool := workers.NewOptions[struct{}](ctx, workers.WithFixedPool(n), workers.WithStartImmediately())
	return NewExecutorRunner(pool)
}
