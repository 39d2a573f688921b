// Package coro provides a goroutine-backed emulation of suspend/resume
// continuations. Go has no native stackful coroutine, so each Coroutine
// is backed by its own goroutine, driven by a pair of channels — the
// same shape markmark206-go-sdk/internal_workflow.go uses for its
// coroutineState (aboutToBlock/unblock), trimmed of the stack-trace and
// decision-task bookkeeping this module has no use for.
package coro

import "fmt"

// Signal is what a driver sends into a parked Body to resume it: either a
// plain value (Resume) or an error to be raised at the suspension point
// (ResumeWithException).
type Signal struct {
	Value any
	Err   error
}

// Step is what a Body sends back out when it suspends or terminates.
type Step struct {
	// Suspended is true when the Body called Yield.Suspend and is now
	// parked. It is false once the body has returned or panicked; Result/
	// Err/Panic hold the terminal outcome in that case.
	Suspended bool
	Payload   any
	Result    any
	Err       error
	Panic     any
}

// Yield is the suspension handle passed into a Body.
type Yield struct {
	co *Coroutine
}

// Suspend parks the calling goroutine until the owning Coroutine's driver
// calls Resume or ResumeWithException, returning the value delivered (or
// raising the error) at that call.
func (y *Yield) Suspend() (any, error) {
	return y.SuspendWithPayload(nil)
}

// SuspendWithPayload is Suspend, additionally attaching payload to the
// Step the driver observes — generators use this to carry the yielded
// value out to the driver in the same step that parks the body.
func (y *Yield) SuspendWithPayload(payload any) (any, error) {
	y.co.stepOut <- Step{Suspended: true, Payload: payload}
	sig := <-y.co.stepIn
	return sig.Value, sig.Err
}

// Body is a coroutine body. It receives its Yield handle and returns its
// terminal result (or panics, which run's recover turns into a Panic
// step).
type Body func(y *Yield) (any, error)

// Coroutine is a single goroutine-backed resumable body.
type Coroutine struct {
	stepIn  chan Signal
	stepOut chan Step
	done    bool
}

// New starts body on its own goroutine. The goroutine blocks immediately,
// waiting for the first Resume/ResumeWithException call (via Start) before
// running any user code.
func New(body Body) *Coroutine {
	co := &Coroutine{
		stepIn:  make(chan Signal),
		stepOut: make(chan Step),
	}
	go co.run(body)
	return co
}

func (co *Coroutine) run(body Body) {
	defer func() {
		if r := recover(); r != nil {
			co.stepOut <- Step{Panic: r}
		}
	}()

	if _, ok := <-co.stepIn; !ok {
		return
	}

	result, err := body(&Yield{co: co})
	co.stepOut <- Step{Result: result, Err: err}
}

// Start runs the body up to its first suspension point or completion.
func (co *Coroutine) Start() Step {
	return co.Resume(nil)
}

// Resume delivers value at the current suspension point (or starts the
// body, on the first call) and runs until the next suspension point or
// completion.
func (co *Coroutine) Resume(value any) Step {
	return co.signal(Signal{Value: value})
}

// ResumeWithException raises err at the current suspension point.
func (co *Coroutine) ResumeWithException(err error) Step {
	return co.signal(Signal{Err: err})
}

// Done reports whether the coroutine has already run to completion (or
// panicked). Resuming a done Coroutine panics.
func (co *Coroutine) Done() bool { return co.done }

func (co *Coroutine) signal(sig Signal) Step {
	if co.done {
		panic(fmt.Sprintf("coro: resume of a completed coroutine (signal=%+v)", sig))
	}
	co.stepIn <- sig
	step := <-co.stepOut
	if !step.Suspended {
		co.done = true
	}
	return step
}
