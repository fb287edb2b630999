package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/result"
	"github.com/wesleyorama2/courier/transport"
)

// Request is one fully formed outgoing request bound to its host's
// transport. It executes at most once; any further attempt fails with
// ErrRequestSpent. The descriptor is fixed at construction.
type Request struct {
	transport  transport.Transport
	timeout    time.Duration
	descriptor endpoint.Descriptor
	buildErr   error
	logger     zerolog.Logger

	spent atomic.Bool
}

// Descriptor returns the request exactly as it will be sent, with host
// default headers merged in. The error is set when the endpoint could not be
// built against the host's base URL.
func (r *Request) Descriptor() (endpoint.Descriptor, error) {
	return r.descriptor, r.buildErr
}

// Err returns the build error, if any.
func (r *Request) Err() error {
	return r.buildErr
}

// Spent reports whether the request has been executed.
func (r *Request) Spent() bool {
	return r.spent.Load()
}

// OnResolved executes the request and hands the classified outcome to fn,
// exactly once, on whatever goroutine the transport completes on. Cancelling
// ctx cancels the in-flight exchange.
func (r *Request) OnResolved(ctx context.Context, fn func(Resolved)) {
	if !r.spent.CompareAndSwap(false, true) {
		fn(Failed(ErrRequestSpent))
		return
	}
	if r.buildErr != nil {
		fn(Failed(r.buildErr))
		return
	}

	out := transport.Outgoing{
		Method:  r.descriptor.Method.String(),
		URL:     r.descriptor.URL,
		Header:  r.descriptor.Headers.HTTP(),
		Body:    r.descriptor.Body,
		Timeout: r.timeout,
	}

	logger := r.logger.With().Str("method", out.Method).Str("url", out.URL.String()).Logger()
	logger.Debug().Int("body_bytes", len(out.Body)).Msg("dispatching request")

	var once sync.Once
	r.transport.Do(ctx, out, func(body []byte, meta *transport.Metadata, err error) {
		delivered := false
		once.Do(func() {
			delivered = true
			res := Resolve(body, meta, err)
			logResolved(logger, res)
			fn(res)
		})
		if !delivered {
			logger.Error().Msg("transport completed more than once; extra completion dropped")
		}
	})
}

func logResolved(logger zerolog.Logger, res Resolved) {
	switch res.State() {
	case StateFailure:
		if errors.Is(res.Err(), ErrUnexpectedTransportState) {
			logger.Error().Err(res.Err()).Msg("transport contract violated")
			return
		}
		logger.Debug().Err(res.Err()).Str("state", res.State().String()).Msg("request failed")
	default:
		logger.Debug().
			Str("state", res.State().String()).
			Int("status", res.Status().Int()).
			Msg("request resolved")
	}
}

// OnData executes the request and delivers the body as raw bytes.
func (r *Request) OnData(ctx context.Context, fn func(result.Result[Data])) {
	r.OnResolved(ctx, func(res Resolved) {
		fn(res.AsData())
	})
}

// OnJSONObject executes the request and delivers the body parsed as a JSON
// object.
func (r *Request) OnJSONObject(ctx context.Context, fn func(result.Result[JSONObject])) {
	r.OnResolved(ctx, func(res Resolved) {
		fn(res.AsJSONObject())
	})
}

// OnJSONArray executes the request and delivers the body parsed as a JSON
// array.
func (r *Request) OnJSONArray(ctx context.Context, fn func(result.Result[JSONArray])) {
	r.OnResolved(ctx, func(res Resolved) {
		fn(res.AsJSONArray())
	})
}

// OnText executes the request and delivers the body as a string.
func (r *Request) OnText(ctx context.Context, fn func(result.Result[Text])) {
	r.OnResolved(ctx, func(res Resolved) {
		fn(res.AsText())
	})
}

// Resolved executes the request and waits for its classified outcome.
func (r *Request) Resolved(ctx context.Context) Resolved {
	res, err := result.Await(ctx, func(ctx context.Context, fn func(result.Result[Resolved])) {
		r.OnResolved(ctx, func(res Resolved) { fn(result.Success(res)) })
	})
	if err != nil {
		return Failed(err)
	}
	return res
}

// Data executes the request and waits for the raw body.
func (r *Request) Data(ctx context.Context) (Data, error) {
	return result.Await(ctx, r.OnData)
}

// JSONObject executes the request and waits for the body parsed as a JSON
// object.
func (r *Request) JSONObject(ctx context.Context) (JSONObject, error) {
	return result.Await(ctx, r.OnJSONObject)
}

// JSONArray executes the request and waits for the body parsed as a JSON
// array.
func (r *Request) JSONArray(ctx context.Context) (JSONArray, error) {
	return result.Await(ctx, r.OnJSONArray)
}

// Text executes the request and waits for the body as a string.
func (r *Request) Text(ctx context.Context) (string, error) {
	t, err := result.Await(ctx, r.OnText)
	return t.Text, err
}
