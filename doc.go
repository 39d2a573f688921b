// Package corochan provides three composable concurrency primitives built
// on top of a small internal coroutine scaffold: synchronous generators,
// asynchronous generators, and single-slot rendezvous channels with
// select.
//
// # Architecture
//
// [Channel] implements a lock-free, four-variant state machine (empty,
// sender registered, sender waiting, receiver waiting) for a bidirectional,
// single-sender/single-receiver rendezvous. [Select] registers one receive
// intent across N channels, sharing a [Token] so exactly one branch fires.
//
// [Generate] and [AsyncGenerate] drive a coroutine body (see
// internal/coro) via [Sequence] and [AsyncSequence] respectively: the
// body suspends on yield (both) and await (async only), and the driver
// pulls values by resuming the body's captured continuation.
//
// [Async] and [RunAsync] glue a coroutine body to a [Future], completing
// or failing it from the body's terminal handlers.
//
// # Thread Safety
//
// Channel and Token operations are safe for concurrent use, modulo the
// single-sender/single-receiver discipline documented on [Channel].
// Sequence and AsyncSequence iterators are owned single-threadedly by
// their consumer; concurrent hasNext/next calls on the same iterator are
// undefined. AsyncSequence has a best-effort reentrancy guard (the Running
// state) that catches the common in-process bug of a body calling back
// into its own sequence synchronously; Sequence iterators have no such
// guard.
//
// # Usage
//
//	ch := corochan.NewChannel[string](corochan.Synchronous)
//	go ch.Send("hi", func(error) {})
//	ch.Receive(func(v string, err error) {
//		fmt.Println(v) // "hi"
//	})
//
//	seq := corochan.Generate(func(y *corochan.Yield[int]) {
//		for i := 1; i <= 3; i++ {
//			y.Yield(2 * i)
//		}
//	})
//	vals, _ := corochan.ToSlice(seq)
//
// # Error Types
//
//   - [ErrProtocolMisuse]: a second concurrent sender/receiver, a select
//     run with no cases, or a reentrant generator call. A duplicate
//     select registration panics in [Select.On] instead.
//   - [CoroutineError]: a coroutine body panicked or returned an error.
//   - [AwaitedFailureError]: returned by [Await] when the awaited future
//     failed; a body that returns it surfaces it inside a CoroutineError.
//   - [ErrTerminalExhaustion]: next() called past the end of a sequence.
//
// All error types implement [error], [errors.Unwrap], and type-based
// matching via errors.Is/errors.As.
package corochan
