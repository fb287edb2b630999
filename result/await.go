package result

import "context"

// Await runs start and blocks until its callback fires or ctx ends. It turns
// a callback-style operation into a (value, error) return.
//
// start receives the same ctx, so ending it should also abort the
// operation; a late completion lands in a buffered channel and is dropped.
// When the outcome and the cancellation race, the outcome wins.
func Await[T any](ctx context.Context, start func(context.Context, func(Result[T]))) (T, error) {
	ch := make(chan Result[T], 1)
	start(ctx, func(res Result[T]) {
		ch <- res
	})

	select {
	case res := <-ch:
		return res.Resolve()
	case <-ctx.Done():
		select {
		case res := <-ch:
			return res.Resolve()
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}
