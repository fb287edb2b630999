// Package host binds endpoint descriptions to a base URL, default headers, a
// timeout and a transport, and resolves what comes back.
//
// A Host is built once from an explicit Config and is immutable afterwards,
// so one Host may serve any number of goroutines. Each verb method returns a
// Request that runs exactly once:
//
//	h, err := host.New(host.Config{BaseURL: "https://api.example.com/v1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	users, err := h.Get("/users", []params.QueryItem{params.Item("page", "2")}, header.Headers{}).
//	    JSONArray(ctx)
//
// Every terminal operation comes in a callback form (OnData, OnJSONObject,
// OnJSONArray, OnText) and an awaitable form (Data, JSONObject, JSONArray,
// Text) built on top of it.
package host

import (
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
	"github.com/wesleyorama2/courier/transport"
)

// Host is the long-lived owner of a base URL, default headers, a timeout and
// the transport shared by every Request it creates.
type Host struct {
	baseURL   *url.URL
	headers   header.Headers
	timeout   time.Duration
	transport transport.Transport
	logger    zerolog.Logger
}

// New creates a Host from cfg after applying defaults and validating it.
func New(cfg Config) (*Host, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := endpoint.ParseBase(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Host{
		baseURL:   base,
		headers:   cfg.Headers,
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
		logger:    cfg.Logger.With().Str("component", "host").Str("base_url", base.String()).Logger(),
	}, nil
}

// URL returns a copy of the base URL.
func (h *Host) URL() *url.URL {
	u := *h.baseURL
	return &u
}

// Headers returns the default headers.
func (h *Host) Headers() header.Headers {
	return h.headers
}

// Timeout returns the per-request timeout.
func (h *Host) Timeout() time.Duration {
	return h.timeout
}

// Request binds an endpoint to this host. A descriptor that cannot be built
// still yields a Request; executing it delivers the build error.
func (h *Host) Request(c endpoint.Convertible) *Request {
	ep := c.Endpoint()
	desc, err := ep.Build(h.baseURL, h.headers)
	return &Request{
		transport:  h.transport,
		timeout:    h.timeout,
		descriptor: desc,
		buildErr:   err,
		logger:     h.logger,
	}
}

// Get builds a GET. query goes to the URL; nothing is sent in the body.
func (h *Host) Get(path string, query []params.QueryItem, headers header.Headers) *Request {
	ep := endpoint.Endpoint{Method: method.Get, Path: path, Headers: headers}
	if len(query) > 0 {
		ep = ep.WithParams(params.Form(query...))
	}
	return h.Request(ep)
}

// Post builds a POST carrying p in the body.
func (h *Host) Post(path string, p params.Params, headers header.Headers) *Request {
	return h.withParams(method.Post, path, p, headers)
}

// PostJSON builds a POST with obj as its JSON body.
func (h *Host) PostJSON(path string, obj jsonvalue.Object, headers header.Headers) *Request {
	return h.Post(path, params.JSON(obj), headers)
}

// PostQuery builds a POST that carries p in the query string and sends no
// body.
func (h *Host) PostQuery(path string, p params.Params, headers header.Headers) *Request {
	return h.withParams(method.PostQuery, path, p, headers)
}

// Put builds a PUT carrying p in the body.
func (h *Host) Put(path string, p params.Params, headers header.Headers) *Request {
	return h.withParams(method.Put, path, p, headers)
}

// PutJSON builds a PUT with obj as its JSON body.
func (h *Host) PutJSON(path string, obj jsonvalue.Object, headers header.Headers) *Request {
	return h.Put(path, params.JSON(obj), headers)
}

// Patch builds a PATCH carrying p in the body.
func (h *Host) Patch(path string, p params.Params, headers header.Headers) *Request {
	return h.withParams(method.Patch, path, p, headers)
}

// Delete builds a DELETE. It takes no parameters and sends no body.
func (h *Host) Delete(path string, headers header.Headers) *Request {
	return h.Request(endpoint.Endpoint{Method: method.Delete, Path: path, Headers: headers})
}

func (h *Host) withParams(m method.Method, path string, p params.Params, headers header.Headers) *Request {
	return h.Request(endpoint.Endpoint{Method: m, Path: path, Headers: headers}.WithParams(p))
}
