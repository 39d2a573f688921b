package corochan

import (
	"context"
	"sync"
	"sync/atomic"
)

// channelKind tags the four possible states a rendezvous slot can be in.
// A tagged variant struct, matched by kind, rather than an interface
// hierarchy with virtual dispatch, so the whole transition is one
// pointer swap.
type channelKind int8

const (
	chanEmpty channelKind = iota
	chanSenderRegistered
	chanSenderWaiting
	chanReceiverWaiting
)

type channelState[T any] struct {
	kind     channelKind
	senderH  func(error)    // SenderRegistered, SenderWaiting
	value    T              // SenderWaiting
	receiver func(T, error) // ReceiverWaiting
}

// InputChannel is the receive side of a Channel.
type InputChannel[T any] interface {
	Receive(r func(T, error))
}

// OutputChannel is the send side of a Channel.
type OutputChannel[T any] interface {
	RegisterSender(h func(error))
	Send(v T, h func(error))
}

type bufferedSend[T any] struct {
	value T
	h     func(error)
}

// ChannelOption configures a Channel at construction.
type ChannelOption func(*channelOpts)

type channelOpts struct{ name string }

// WithChannelName sets a diagnostic name returned by Channel.Name. The
// name is not included in the channel's log output.
func WithChannelName(name string) ChannelOption {
	return func(o *channelOpts) { o.name = name }
}

// Channel is a single-slot rendezvous channel between one pending sender
// and one pending receiver, implemented as a lock-free, four-variant
// state machine stored behind a CAS retry loop. Go has no multi-word
// compare-and-swap, so each transition is a load-mutate-CAS loop over an
// immutable state snapshot, the same load/CAS/retry shape catrate's
// categoryData uses over its atomic fields.
//
// Constructing with size > 0 (NewBufferedChannel) switches to a
// capacity-n ring, guarded by a mutex instead of the lock-free path,
// matching channelImpl's blockedSends/blockedReceives queues in the
// Cadence-style grounding source.
//
// If a Channel is dropped with a parked sender or receiver and no
// matching party ever arrives, that party's completion callback is
// simply never invoked — it leaks its captured closure until the
// Channel itself is garbage collected. No finalizer is registered; this
// module has no persistence or cleanup hook to give it one.
type Channel[T any] struct {
	name   string
	runner Runner
	state  atomic.Pointer[channelState[T]]

	size            int
	bufMu           sync.Mutex
	buffer          []T
	blockedSends    []bufferedSend[T]
	blockedReceives []func(T, error)
}

// NewChannel returns a single-slot rendezvous Channel dispatching its
// callbacks via r.
func NewChannel[T any](r Runner, opts ...ChannelOption) *Channel[T] {
	return newChannel[T](r, 0, opts...)
}

// NewBufferedChannel returns a capacity-size Channel; size must be > 0.
func NewBufferedChannel[T any](r Runner, size int, opts ...ChannelOption) *Channel[T] {
	if size <= 0 {
		panic("corochan: NewBufferedChannel requires size > 0")
	}
	return newChannel[T](r, size, opts...)
}

func newChannel[T any](r Runner, size int, opts ...ChannelOption) *Channel[T] {
	var o channelOpts
	for _, opt := range opts {
		opt(&o)
	}
	c := &Channel[T]{name: o.name, runner: r, size: size}
	c.state.Store(&channelState[T]{kind: chanEmpty})
	return c
}

// Name returns the channel's diagnostic name, or "" if none was set.
func (c *Channel[T]) Name() string { return c.name }

var (
	_ InputChannel[int]  = (*Channel[int])(nil)
	_ OutputChannel[int] = (*Channel[int])(nil)
)

// RegisterSender advertises sender intent without producing a value yet.
// On a buffered channel (size > 0) there is no lazy-producer slot to
// register into, so h runs immediately.
func (c *Channel[T]) RegisterSender(h func(error)) {
	if c.size > 0 {
		c.runner.Run(func() { h(nil) })
		return
	}
	for {
		old := c.state.Load()
		switch old.kind {
		case chanEmpty:
			next := &channelState[T]{kind: chanSenderRegistered, senderH: h}
			if c.state.CompareAndSwap(old, next) {
				parkedParties.WithLabelValues("sender").Inc()
				return
			}
		case chanSenderRegistered, chanSenderWaiting:
			c.rejectSender(h, "another sender waiting")
			return
		case chanReceiverWaiting:
			// state unchanged: the parked receiver just needs the
			// sender unblocked to go compute its value.
			c.runner.Run(func() { h(nil) })
			return
		}
	}
}

// Send produces v, parking until a receiver claims it (or immediately
// rendezvousing with one already parked).
func (c *Channel[T]) Send(v T, h func(error)) {
	if c.size > 0 {
		c.sendBuffered(v, h)
		return
	}
	for {
		old := c.state.Load()
		switch old.kind {
		case chanEmpty, chanSenderRegistered:
			next := &channelState[T]{kind: chanSenderWaiting, value: v, senderH: h}
			if c.state.CompareAndSwap(old, next) {
				if old.kind == chanEmpty {
					parkedParties.WithLabelValues("sender").Inc()
				}
				return
			}
		case chanSenderWaiting:
			c.rejectSender(h, "another sender waiting")
			return
		case chanReceiverWaiting:
			next := &channelState[T]{kind: chanEmpty}
			if c.state.CompareAndSwap(old, next) {
				parkedParties.WithLabelValues("receiver").Dec()
				r := old.receiver
				c.runner.Run(func() {
					r(v, nil)
					h(nil)
				})
				rendezvousTotal.WithLabelValues("ok").Inc()
				return
			}
		}
	}
}

// Receive parks r until a value arrives (or claims one already parked).
func (c *Channel[T]) Receive(r func(T, error)) {
	if c.size > 0 {
		c.receiveBuffered(r)
		return
	}
	for {
		old := c.state.Load()
		switch old.kind {
		case chanEmpty:
			next := &channelState[T]{kind: chanReceiverWaiting, receiver: r}
			if c.state.CompareAndSwap(old, next) {
				parkedParties.WithLabelValues("receiver").Inc()
				return
			}
		case chanSenderRegistered:
			next := &channelState[T]{kind: chanReceiverWaiting, receiver: r}
			if c.state.CompareAndSwap(old, next) {
				parkedParties.WithLabelValues("sender").Dec()
				h := old.senderH
				c.runner.Run(func() { h(nil) })
				parkedParties.WithLabelValues("receiver").Inc()
				return
			}
		case chanReceiverWaiting:
			c.rejectReceiver(r, "another reader waiting")
			return
		case chanSenderWaiting:
			next := &channelState[T]{kind: chanEmpty}
			if c.state.CompareAndSwap(old, next) {
				parkedParties.WithLabelValues("sender").Dec()
				v, h := old.value, old.senderH
				c.runner.Run(func() {
					r(v, nil)
					h(nil)
				})
				rendezvousTotal.WithLabelValues("ok").Inc()
				return
			}
		}
	}
}

func (c *Channel[T]) rejectSender(h func(error), msg string) {
	c.runner.Run(func() { h(asProtocolMisuse(msg)) })
	rendezvousTotal.WithLabelValues("protocol_misuse").Inc()
	logProtocolMisuse("channel", msg)
}

func (c *Channel[T]) rejectReceiver(r func(T, error), msg string) {
	var zero T
	c.runner.Run(func() { r(zero, asProtocolMisuse(msg)) })
	rendezvousTotal.WithLabelValues("protocol_misuse").Inc()
	logProtocolMisuse("channel", msg)
}

func (c *Channel[T]) sendBuffered(v T, h func(error)) {
	c.bufMu.Lock()
	if len(c.blockedReceives) > 0 {
		recv := c.blockedReceives[0]
		c.blockedReceives = c.blockedReceives[1:]
		c.bufMu.Unlock()
		parkedParties.WithLabelValues("receiver").Dec()
		c.runner.Run(func() {
			recv(v, nil)
			h(nil)
		})
		rendezvousTotal.WithLabelValues("ok").Inc()
		return
	}
	if len(c.buffer) < c.size {
		c.buffer = append(c.buffer, v)
		c.bufMu.Unlock()
		c.runner.Run(func() { h(nil) })
		rendezvousTotal.WithLabelValues("ok").Inc()
		return
	}
	c.blockedSends = append(c.blockedSends, bufferedSend[T]{value: v, h: h})
	c.bufMu.Unlock()
	parkedParties.WithLabelValues("sender").Inc()
}

func (c *Channel[T]) receiveBuffered(r func(T, error)) {
	c.bufMu.Lock()
	if len(c.buffer) == 0 {
		c.blockedReceives = append(c.blockedReceives, r)
		c.bufMu.Unlock()
		parkedParties.WithLabelValues("receiver").Inc()
		return
	}

	v := c.buffer[0]
	c.buffer = c.buffer[1:]

	var promoted *bufferedSend[T]
	if len(c.blockedSends) > 0 {
		bs := c.blockedSends[0]
		c.blockedSends = c.blockedSends[1:]
		c.buffer = append(c.buffer, bs.value)
		promoted = &bs
	}
	c.bufMu.Unlock()

	if promoted != nil {
		parkedParties.WithLabelValues("sender").Dec()
	}
	c.runner.Run(func() {
		r(v, nil)
		if promoted != nil {
			promoted.h(nil)
		}
	})
	rendezvousTotal.WithLabelValues("ok").Inc()
}

// SendSync is a blocking convenience wrapper around Send, for callers
// driving a channel from an ordinary goroutine rather than a coroutine
// body.
func (c *Channel[T]) SendSync(ctx context.Context, v T) error {
	done := make(chan error, 1)
	c.Send(v, func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReceiveSync is a blocking convenience wrapper around Receive.
func (c *Channel[T]) ReceiveSync(ctx context.Context) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	c.Receive(func(v T, err error) { done <- result{v: v, err: err} })
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
