package corochan

import "github.com/joeycumines/corochan/internal/coro"

// awaitRequest is the suspension payload produced by Await: a closure
// that subscribes a driver-supplied resume function to whatever future
// is being awaited, so the driver never needs to know the future's
// element type.
type awaitRequest struct {
	subscribe func(resume func(any, error))
}

// Await suspends ctrl's owning coroutine until f settles, returning its
// value or propagating its error at the suspension point. Declared as a
// free function, not a method on AsyncController, because Go methods
// cannot introduce a type parameter of their own. If f never settles, the
// coroutine stays parked and its goroutine is never released.
func Await[U any](ctrl *AsyncController, f *Future[U]) (U, error) {
	raw, err := ctrl.y.SuspendWithPayload(awaitRequest{
		subscribe: func(resume func(any, error)) {
			f.WhenComplete(func(v U, ferr error) { resume(v, ferr) })
		},
	})
	var zero U
	if err != nil {
		return zero, &AwaitedFailureError{Cause: err}
	}
	v, _ := raw.(U)
	return v, nil
}

// asyncStepHandler dispatches the three things a coroutine step can mean
// once it has suspended or finished: it yielded a generator value, it is
// awaiting a future, or it is done (successfully or not).
type asyncStepHandler struct {
	onYield func(payload any, resume func(any, error))
	onAwait func(req awaitRequest, resume func(any, error))
	onDone  func(result any, err error)
}

// defaultOnAwait is the subscription behavior shared by every driver:
// hand the future's eventual settlement straight back to the coroutine.
func defaultOnAwait(req awaitRequest, resume func(any, error)) {
	req.subscribe(resume)
}

// driveAsyncSteps wires co's suspend/resume protocol to h, returning an
// advance function the caller invokes (with a nil value/error, the
// first time) to run co up to its next suspension or completion. The
// same function also continues the coroutine from a prior suspension —
// coro.Coroutine.Resume treats "never started" and "parked" uniformly.
func driveAsyncSteps(co *coro.Coroutine, h asyncStepHandler) func(v any, err error) {
	var handle func(step coro.Step)
	var advance func(v any, err error)

	advance = func(v any, err error) {
		var step coro.Step
		if err != nil {
			step = co.ResumeWithException(err)
		} else {
			step = co.Resume(v)
		}
		handle(step)
	}

	handle = func(step coro.Step) {
		if step.Suspended {
			if req, ok := step.Payload.(awaitRequest); ok {
				h.onAwait(req, advance)
			} else {
				h.onYield(step.Payload, advance)
			}
			return
		}
		if step.Panic != nil {
			h.onDone(nil, &CoroutineError{Panic: step.Panic})
			return
		}
		if step.Err != nil {
			h.onDone(nil, &CoroutineError{Cause: step.Err})
			return
		}
		h.onDone(step.Result, nil)
	}

	return advance
}
