package corochan

import "github.com/joeycumines/corochan/internal/coro"

// AsyncController is the handle a coroutine body launched by Async,
// RunAsync, or AsyncGenerate uses to await other futures. It carries no
// exported state; all capability is reached through the free function
// Await.
type AsyncController struct {
	y *coro.Yield
}

// Async starts body on its own coroutine immediately and returns a
// Future that settles with its result. body may call Await any number
// of times; it must not call a Yield from an *AsyncYield that does not
// belong to it.
func Async[T any](body func(*AsyncController) (T, error)) *Future[T] {
	fut := NewFuture[T]()
	co := coro.New(func(y *coro.Yield) (any, error) {
		return body(&AsyncController{y: y})
	})
	advance := driveAsyncSteps(co, asyncStepHandler{
		onAwait: defaultOnAwait,
		onYield: func(any, func(any, error)) {
			panic("corochan: Async body suspended without awaiting a future")
		},
		onDone: func(result any, err error) {
			if err != nil {
				fut.CompleteExceptionally(err)
				return
			}
			v, _ := result.(T)
			fut.Complete(v)
		},
	})
	advance(nil, nil)
	return fut
}

// RunAsync is Async for a body with no result worth keeping: it starts
// body on its own coroutine and, if the body returns an error, logs it
// rather than surfacing it anywhere a caller could observe.
func RunAsync(body func(*AsyncController) error) {
	Async[struct{}](func(ctrl *AsyncController) (struct{}, error) {
		return struct{}{}, body(ctrl)
	}).WhenComplete(func(_ struct{}, err error) {
		if err != nil {
			logCoroutineFailure("RunAsync", err)
		}
	})
}
