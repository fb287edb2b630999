package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// HTTP is a Transport backed by net/http. Every exchange runs on its own
// goroutine and records DNS, connect, TLS, first-byte and transfer timings.
type HTTP struct {
	httpClient *http.Client
}

// HTTPOption is a function that configures an HTTP transport
type HTTPOption func(*HTTP)

// NewHTTP creates a net/http transport with the given options
func NewHTTP(options ...HTTPOption) *HTTP {
	t := &HTTP{
		httpClient: &http.Client{},
	}

	// Apply options
	for _, option := range options {
		option(t)
	}

	return t
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTP) {
		t.httpClient = c
	}
}

// WithClientTimeout sets a client-wide timeout, applied in addition to any
// per-request Outgoing.Timeout
func WithClientTimeout(timeout time.Duration) HTTPOption {
	return func(t *HTTP) {
		t.httpClient.Timeout = timeout
	}
}

// Do implements Transport.
func (t *HTTP) Do(ctx context.Context, out Outgoing, done Completion) {
	go func() {
		body, meta, err := t.exchange(ctx, out)
		done(body, meta, err)
	}()
}

func (t *HTTP) exchange(ctx context.Context, out Outgoing) ([]byte, *Metadata, error) {
	if out.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, out.Timeout)
		defer cancel()
	}

	target := ""
	if out.URL != nil {
		target = out.URL.String()
	}
	fail := func(op string, err error) ([]byte, *Metadata, error) {
		return nil, nil, &Error{Op: op, Method: out.Method, URL: target, Err: err}
	}

	// Build the HTTP request
	var bodyReader io.Reader
	if out.Body != nil {
		bodyReader = bytes.NewReader(out.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, out.Method, target, bodyReader)
	if err != nil {
		return fail("build", err)
	}
	for key, values := range out.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if host := httpReq.Header.Get("Host"); host != "" {
		httpReq.Host = host
	}

	// Initialize timing info
	timing := Timing{
		StartTime: time.Now(),
	}
	tracer := newPhaseTracer(&timing)
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), tracer.trace()))

	// Execute the request
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fail("send", err)
	}
	defer httpResp.Body.Close()

	// Read the body
	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fail("read", err)
	}
	if body == nil {
		body = []byte{}
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return body, &Metadata{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Proto:      httpResp.Proto,
		Timing:     timing,
	}, nil
}

// phaseTracer fills a Timing from httptrace callbacks. Each phase is
// measured from its own start; time to first byte is measured from the end
// of the last completed phase.
type phaseTracer struct {
	timing *Timing

	dnsStart, connectStart, tlsStart time.Time
	connectDone                      bool
	lastPhaseEnd                     time.Time
}

func newPhaseTracer(timing *Timing) *phaseTracer {
	return &phaseTracer{timing: timing, lastPhaseEnd: timing.StartTime}
}

func (p *phaseTracer) trace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			p.dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			end := time.Now()
			p.timing.DNSLookupTime = end.Sub(p.dnsStart)
			p.lastPhaseEnd = end
		},
		ConnectStart: func(network, addr string) {
			// Literal IPs skip DNS entirely
			p.connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				return
			}
			end := time.Now()
			p.timing.TCPConnectTime = end.Sub(p.connectStart)
			p.connectDone = true
			p.lastPhaseEnd = end
		},
		TLSHandshakeStart: func() {
			if p.connectDone {
				p.tlsStart = time.Now()
			}
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err != nil || p.tlsStart.IsZero() {
				return
			}
			end := time.Now()
			p.timing.TLSHandshakeTime = end.Sub(p.tlsStart)
			p.lastPhaseEnd = end
		},
		GotFirstResponseByte: func() {
			p.timing.TimeToFirstByte = time.Since(p.lastPhaseEnd)
		},
	}
}
