package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error is an opaque transport failure: the network, a timeout or a
// cancellation. It records which step failed and for which URL.
type Error struct {
	// Op is the step that failed: "build", "send" or "read".
	Op     string
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("transport: %s %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or network timeout.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Canceled reports whether the exchange was cancelled by its context.
func (e *Error) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// IsTimeout checks if err is a transport timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Timeout()
}

// IsCanceled checks if err is a transport cancellation.
func IsCanceled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Canceled()
}
