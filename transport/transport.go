// Package transport defines the network collaborator that actually performs
// HTTP I/O, together with two implementations: one on net/http with detailed
// phase timing, and one on a resty client.
//
// A Transport receives a fully built Outgoing request and reports exactly
// once through a Completion with the raw triad (body, metadata, error). It is
// the transport's job to enforce timeouts and honour context cancellation;
// callers only classify what comes back.
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Outgoing is one request ready to go on the wire.
type Outgoing struct {
	// Method is the wire verb, e.g. "POST".
	Method string
	URL    *url.URL
	Header http.Header
	// Body is nil when no body is sent.
	Body []byte
	// Timeout bounds the whole exchange. Zero leaves it to the transport.
	Timeout time.Duration
}

// Metadata describes a received response.
type Metadata struct {
	// StatusCode is the numeric HTTP status. Zero or negative means the
	// response carried no recognisable status.
	StatusCode int
	Header     http.Header
	Proto      string
	Timing     Timing
}

// ContentType returns the response Content-Type header, if any.
func (m *Metadata) ContentType() string {
	if m == nil || m.Header == nil {
		return ""
	}
	return m.Header.Get("Content-Type")
}

// Timing holds per-phase durations of one exchange
type Timing struct {
	StartTime           time.Time
	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration
}

// Completion receives the outcome of one exchange. On success body is
// non-nil (possibly empty) and meta is set; on failure err is set.
type Completion func(body []byte, meta *Metadata, err error)

// Transport performs HTTP exchanges. Do must return promptly and call done
// exactly once, from any goroutine. Cancelling ctx must abort the in-flight
// exchange.
type Transport interface {
	Do(ctx context.Context, out Outgoing, done Completion)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, out Outgoing, done Completion)

// Do calls f.
func (f Func) Do(ctx context.Context, out Outgoing, done Completion) {
	f(ctx, out, done)
}

// Wait runs one exchange on t and blocks until it completes.
func Wait(ctx context.Context, t Transport, out Outgoing) ([]byte, *Metadata, error) {
	type triad struct {
		body []byte
		meta *Metadata
		err  error
	}
	ch := make(chan triad, 1)
	t.Do(ctx, out, func(body []byte, meta *Metadata, err error) {
		ch <- triad{body, meta, err}
	})
	got := <-ch
	return got.body, got.meta, got.err
}
