// Package result provides Result, a two-case value holding either a success
// value or an error, with combinators for chaining fallible and asynchronous
// steps without nesting callbacks.
//
// Go methods cannot introduce type parameters, so the type-changing
// combinators (Map, FlatMap, AsyncFlatMap, FlatRoute, AsyncFlatRoute) are
// package functions taking the Result as their first argument.
package result

import "fmt"

// Result is either a success carrying a T or a failure carrying an error.
// Results are plain values: copy and compare them freely.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps err. A nil err is replaced with ErrNilFailure so a failure can
// never masquerade as a success.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrNilFailure
	}
	return Result[T]{err: err}
}

// Of builds a Result from the usual Go (value, error) pair.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// ErrNilFailure stands in for a nil error handed to Failure.
var ErrNilFailure = fmt.Errorf("result: failure with nil error")

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether r holds an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns the success value, or the zero T for a failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure's error, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Resolve unwraps r into the conventional (value, error) pair for callers
// that prefer a synchronous style.
func (r Result[T]) Resolve() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Map transforms a success value with f, which must not fail. Failures pass
// through untouched and f is not called.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Failure[U](r.err)
	}
	return Success(f(r.value))
}

// FlatMap feeds a success value to f, which returns its own Result. Failures
// pass through untouched and f is not called. A panic inside f is recovered
// and turned into a failure.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) (out Result[U]) {
	if r.err != nil {
		return Failure[U](r.err)
	}
	defer func() {
		if p := recover(); p != nil {
			out = Failure[U](panicError(p))
		}
	}()
	return f(r.value)
}

// AsyncFlatMap is FlatMap for a transform that reports through a completion
// callback instead of returning. On a failure, completion is called at once
// with the original error and f is never invoked.
func AsyncFlatMap[T, U any](r Result[T], f func(T, func(Result[U])), completion func(Result[U])) {
	if r.err != nil {
		completion(Failure[U](r.err))
		return
	}
	f(r.value, completion)
}

// FlatRoute composes an adaptor in front of a downstream continuation. The
// returned function accepts a Result[T], flat-maps it through adaptor and
// hands the outcome to continuation.
func FlatRoute[T, U any](continuation func(Result[U]), adaptor func(T) Result[U]) func(Result[T]) {
	return func(r Result[T]) {
		continuation(FlatMap(r, adaptor))
	}
}

// AsyncFlatRoute is FlatRoute for an adaptor that is itself asynchronous.
func AsyncFlatRoute[T, U any](continuation func(Result[U]), adaptor func(T, func(Result[U]))) func(Result[T]) {
	return func(r Result[T]) {
		AsyncFlatMap(r, adaptor, continuation)
	}
}

// PanicError is the failure produced when a FlatMap transform panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("result: transform panicked: %v", e.Value)
}

func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return &PanicError{Value: p}
}
