package corochan

import "sync/atomic"

// Token is a one-shot "still interested" election flag: checkable and
// releasable without locks. It is not a cancellation token — it never
// propagates a stop signal, it only elects a single winner among
// competing callbacks.
type Token struct {
	active atomic.Bool
}

// NewToken returns a Token starting in the active state.
func NewToken() *Token {
	t := &Token{}
	t.active.Store(true)
	return t
}

// IsActive reports whether the token has not yet been released. May be
// read without synchronization beyond the atomic load itself.
func (t *Token) IsActive() bool { return t.active.Load() }

// Release atomically flips active->inactive. It returns true exactly
// once, for whichever caller's Release call performed the flip; every
// other caller (including re-entrant ones) gets false.
func (t *Token) Release() bool { return t.active.CompareAndSwap(true, false) }
