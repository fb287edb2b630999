package transport

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Resty is a Transport backed by a resty client. Timings come from resty's
// request tracing. The client's own retry settings are left as configured;
// NewResty does not enable any.
type Resty struct {
	client *resty.Client
}

// NewResty wraps c. A nil c gets a fresh resty.New().
func NewResty(c *resty.Client) *Resty {
	if c == nil {
		c = resty.New()
	}
	return &Resty{client: c}
}

// Client returns the wrapped resty client.
func (t *Resty) Client() *resty.Client {
	return t.client
}

// Do implements Transport.
func (t *Resty) Do(ctx context.Context, out Outgoing, done Completion) {
	go func() {
		body, meta, err := t.exchange(ctx, out)
		done(body, meta, err)
	}()
}

func (t *Resty) exchange(ctx context.Context, out Outgoing) ([]byte, *Metadata, error) {
	if out.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, out.Timeout)
		defer cancel()
	}

	target := ""
	if out.URL != nil {
		target = out.URL.String()
	}

	req := t.client.R().SetContext(ctx).EnableTrace()
	for key, values := range out.Header {
		req.SetHeaderMultiValues(map[string][]string{key: values})
	}
	if out.Body != nil {
		req.SetBody(out.Body)
	}

	start := time.Now()
	resp, err := req.Execute(out.Method, target)
	if err != nil {
		return nil, nil, &Error{Op: "send", Method: out.Method, URL: target, Err: err}
	}

	body := resp.Body()
	if body == nil {
		body = []byte{}
	}

	trace := resp.Request.TraceInfo()
	return body, &Metadata{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Proto:      resp.Proto(),
		Timing: Timing{
			StartTime:        start,
			DNSLookupTime:    trace.DNSLookup,
			TCPConnectTime:   trace.TCPConnTime,
			TLSHandshakeTime: trace.TLSHandshake,
			TimeToFirstByte:  trace.ServerTime,
			// ResponseTime covers first byte to last byte.
			ContentTransferTime: trace.ResponseTime,
			TotalTime:           trace.TotalTime,
		},
	}, nil
}
