package corochan

import (
	"context"
	"sync"

	"github.com/joeycumines/corochan/internal/coro"
)

// AsyncYield is the handle an AsyncGenerate body uses to produce
// elements, analogous to Yield but for a body that may also Await.
type AsyncYield[T any] struct {
	y *coro.Yield
}

type yieldMarker[T any] struct{ value T }

// Yield produces v as the sequence's next element, parking the body
// until the consumer asks for another via Next/HasNext.
func (ay *AsyncYield[T]) Yield(v T) {
	ay.y.SuspendWithPayload(yieldMarker[T]{value: v})
}

type asyncGenState int8

const (
	asyncInitial asyncGenState = iota
	asyncRunning
	asyncHasValue
	asyncNotReady
	asyncStopped
	asyncException
)

// AsyncSequence is a single-pass, pull-driven sequence whose body may
// suspend either to yield a value or to Await another future. Unlike
// Sequence it is not re-iterable: the body's coroutine is the sequence,
// so HasNextFuture/Next operate directly on it rather than through a
// separate iterator type.
//
// Calling HasNextFuture or Next while a previous HasNextFuture call is
// still Running is a protocol misuse, reported via ErrIllegalReentrancy
// rather than silently queuing.
type AsyncSequence[T any] struct {
	body func(*AsyncController, *AsyncYield[T]) error

	mu        sync.Mutex
	state     asyncGenState
	co        *coro.Coroutine
	advance   func(v any, err error)
	value     T
	err       error
	pending   *Future[bool]
	closeOnce sync.Once
}

// AsyncGenerate returns an AsyncSequence that runs body lazily: nothing
// runs until the first HasNextFuture/HasNext call.
func AsyncGenerate[T any](body func(*AsyncController, *AsyncYield[T]) error) *AsyncSequence[T] {
	return &AsyncSequence[T]{body: body}
}

// HasNext is the blocking convenience form of HasNextFuture.
func (s *AsyncSequence[T]) HasNext(ctx context.Context) (bool, error) {
	return s.HasNextFuture().Get(ctx)
}

// HasNextFuture reports, via a Future, whether a further Next call
// would yield a value. Repeated calls while a value is already waiting
// (HasValue), Stopped, or Exception return an already-settled future without re-running the
// body.
func (s *AsyncSequence[T]) HasNextFuture() *Future[bool] {
	s.mu.Lock()
	switch s.state {
	case asyncHasValue:
		s.mu.Unlock()
		f := NewFuture[bool]()
		f.Complete(true)
		return f
	case asyncStopped:
		s.mu.Unlock()
		f := NewFuture[bool]()
		f.Complete(false)
		return f
	case asyncException:
		err := s.err
		s.mu.Unlock()
		f := NewFuture[bool]()
		f.CompleteExceptionally(err)
		return f
	case asyncRunning:
		s.mu.Unlock()
		f := NewFuture[bool]()
		f.CompleteExceptionally(ErrIllegalReentrancy)
		return f
	}

	if s.advance == nil {
		s.startDriverLocked()
	}
	fut := NewFuture[bool]()
	s.pending = fut
	s.state = asyncRunning
	advance := s.advance
	s.mu.Unlock()

	advance(nil, nil)
	return fut
}

// Next returns the element HasNextFuture/HasNext most recently confirmed
// is available, or the terminal error once the sequence is Stopped or
// has failed. Calling Next without first observing a true HasNext result
// is a protocol misuse.
func (s *AsyncSequence[T]) Next() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case asyncHasValue:
		v := s.value
		var zero T
		s.value = zero
		s.state = asyncNotReady
		return v, nil
	case asyncStopped:
		var zero T
		return zero, ErrTerminalExhaustion
	case asyncException:
		var zero T
		return zero, s.err
	case asyncRunning:
		var zero T
		return zero, ErrIllegalReentrancy
	default:
		var zero T
		return zero, asProtocolMisuse("Next called without a confirmed HasNext value")
	}
}

func (s *AsyncSequence[T]) startDriverLocked() {
	s.co = coro.New(func(y *coro.Yield) (any, error) {
		ctrl := &AsyncController{y: y}
		ay := &AsyncYield[T]{y: y}
		return nil, s.body(ctrl, ay)
	})
	s.advance = driveAsyncSteps(s.co, asyncStepHandler{
		onAwait: defaultOnAwait,
		onYield: func(payload any, _ func(any, error)) {
			ym := payload.(yieldMarker[T])
			s.mu.Lock()
			s.value = ym.value
			s.state = asyncHasValue
			fut := s.pending
			s.pending = nil
			s.mu.Unlock()
			fut.Complete(true)
		},
		onDone: func(_ any, err error) {
			s.mu.Lock()
			fut := s.pending
			s.pending = nil
			if err != nil {
				s.state = asyncException
				s.err = err
			} else {
				s.state = asyncStopped
			}
			s.mu.Unlock()
			s.release()
			if err != nil {
				logCoroutineFailure("asyncgen", err)
				fut.CompleteExceptionally(err)
			} else {
				fut.Complete(false)
			}
		},
	})
	activeGenerators.WithLabelValues("async").Inc()
}

func (s *AsyncSequence[T]) release() {
	s.closeOnce.Do(func() {
		activeGenerators.WithLabelValues("async").Dec()
	})
}
