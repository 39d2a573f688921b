package corochan

import (
	"sync"

	"github.com/joeycumines/corochan/internal/coro"
)

// Yield is the handle a Generate body uses to produce elements. Only
// valid for the duration of the body call that received it.
type Yield[T any] struct {
	y *coro.Yield
}

// Yield produces v as the sequence's next element, parking the body
// until the consumer pulls again.
func (y *Yield[T]) Yield(v T) {
	y.y.SuspendWithPayload(v)
}

// YieldAll runs s's body directly on this coroutine, forwarding its
// Yield calls through the same suspension point, rather than starting a
// second coroutine to drain s and re-yielding each value from here. The
// Go call stack is the only bookkeeping a chain of nested YieldAll calls
// needs: pulling one element from a chain N levels deep costs one
// resume of the outermost coroutine, not one resume per level, however
// deep the chain gets.
func (y *Yield[T]) YieldAll(s *Sequence[T]) {
	s.body(y)
}

// Sequence is a lazily-produced, pull-driven, re-iterable sequence of
// values. Calling Iterator more than once runs body again from the
// start, each on its own goroutine-backed coroutine.
type Sequence[T any] struct {
	body func(*Yield[T])
}

// Generate returns a Sequence that runs body, lazily, once per
// SyncIterator obtained from Iterator.
func Generate[T any](body func(*Yield[T])) *Sequence[T] {
	return &Sequence[T]{body: body}
}

// Iterator starts a fresh, independent traversal of the sequence.
func (s *Sequence[T]) Iterator() *SyncIterator[T] {
	co := coro.New(func(y *coro.Yield) (any, error) {
		s.body(&Yield[T]{y: y})
		return nil, nil
	})
	activeGenerators.WithLabelValues("sync").Inc()
	return &SyncIterator[T]{co: co}
}

type syncGenState int8

const (
	syncNotReady syncGenState = iota
	syncReady
	syncDone
	syncFailed
)

// SyncIterator pulls elements from one traversal of a Sequence following
// the usual hasNext()/next() generator protocol: internally it tracks
// NotReady/Ready/Done/Failed and only resumes the backing coroutine when
// a Ready value isn't already buffered.
type SyncIterator[T any] struct {
	co       *coro.Coroutine
	state    syncGenState
	value    T
	err      error
	closeOne sync.Once
}

// HasNext reports whether a further call to Next would yield a value,
// advancing the underlying coroutine if necessary to find out.
func (it *SyncIterator[T]) HasNext() bool {
	switch it.state {
	case syncReady:
		return true
	case syncDone, syncFailed:
		return false
	}
	it.advance()
	return it.state == syncReady
}

// Next returns the next element, or ErrTerminalExhaustion once the
// sequence is done, or the error the body failed with.
func (it *SyncIterator[T]) Next() (T, error) {
	if !it.HasNext() {
		var zero T
		if it.err != nil {
			return zero, it.err
		}
		return zero, ErrTerminalExhaustion
	}
	v := it.value
	it.state = syncNotReady
	return v, nil
}

func (it *SyncIterator[T]) advance() {
	step := it.co.Resume(nil)
	if step.Suspended {
		it.value, _ = step.Payload.(T)
		it.state = syncReady
		return
	}
	it.release()
	if step.Panic != nil {
		it.err = &CoroutineError{Panic: step.Panic}
		it.state = syncFailed
		logCoroutineFailure("syncgen", it.err)
		return
	}
	if step.Err != nil {
		it.err = step.Err
		it.state = syncFailed
		logCoroutineFailure("syncgen", it.err)
		return
	}
	it.state = syncDone
}

func (it *SyncIterator[T]) release() {
	it.closeOne.Do(func() {
		activeGenerators.WithLabelValues("sync").Dec()
	})
}

// ToSlice drains a full traversal of s into a slice.
func ToSlice[T any](s *Sequence[T]) ([]T, error) {
	it := s.Iterator()
	var out []T
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	if it.err != nil {
		return out, it.err
	}
	return out, nil
}
