package corochan

import (
	"context"
	"sync"
)

type selectCase[T any] struct {
	ch      *Channel[T]
	handler func(T)
}

// Select is a one-of-many receive combinator: it registers a Receive
// against every case and runs exactly one handler,
// the one belonging to whichever channel rendezvouses first. The other
// cases' Receive callbacks still fire eventually (a Channel has no
// cancellation primitive to retract a parked receiver), but Select
// discards anything arriving after the first winner is decided.
type Select[T any] struct {
	mu    sync.Mutex
	cases []selectCase[T]
}

// NewSelect returns an empty Select builder.
func NewSelect[T any]() *Select[T] { return &Select[T]{} }

// On registers ch as a case: if ch rendezvouses first, handler runs with
// its value. Registering the same channel twice on one Select panics.
func (s *Select[T]) On(ch *Channel[T], handler func(T)) *Select[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cases {
		if c.ch == ch {
			panic("corochan: channel registered twice in the same Select")
		}
	}
	s.cases = append(s.cases, selectCase[T]{ch: ch, handler: handler})
	return s
}

// Run blocks until one registered case wins and runs its handler, or ctx
// is done first. A Select with no registered cases is itself a protocol
// misuse.
func (s *Select[T]) Run(ctx context.Context) error {
	s.mu.Lock()
	cases := append([]selectCase[T](nil), s.cases...)
	s.mu.Unlock()

	if len(cases) == 0 {
		err := asProtocolMisuse("select has no registered cases")
		logProtocolMisuse("select", "Run called with zero registered cases")
		return err
	}

	token := NewToken()
	done := make(chan struct{})
	var (
		once    sync.Once
		winner  func()
		failure error
	)

	finish := func(fn func(), err error) {
		once.Do(func() {
			winner, failure = fn, err
			close(done)
		})
	}

	for _, c := range cases {
		c := c
		c.ch.Receive(func(v T, err error) {
			if !token.Release() {
				return
			}
			if err != nil {
				finish(nil, err)
				return
			}
			finish(func() { c.handler(v) }, nil)
		})
	}

	select {
	case <-done:
		if winner != nil {
			winner()
		}
		return failure
	case <-ctx.Done():
		return ctx.Err()
	}
}
