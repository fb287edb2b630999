package endpoint

import (
	"fmt"
	"net/url"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
)

// Endpoint is the logical description of one API call before it is bound to
// a host. Headers holds only what the caller set explicitly; the content type
// implied by Params is added by EffectiveHeaders.
type Endpoint struct {
	Method  method.Method
	Path    string
	Params  *params.Params
	Headers header.Headers
}

// Convertible is anything that can describe itself as an Endpoint, such as
// an application-defined enum of API calls.
type Convertible interface {
	Endpoint() Endpoint
}

// Endpoint returns e, so an Endpoint is its own Convertible.
func (e Endpoint) Endpoint() Endpoint {
	return e
}

// New creates an endpoint without parameters or headers
func New(m method.Method, path string) Endpoint {
	return Endpoint{Method: m, Path: path}
}

// WithParams returns a copy of e carrying p.
func (e Endpoint) WithParams(p params.Params) Endpoint {
	e.Params = &p
	return e
}

// WithHeader returns a copy of e with one more explicit header.
func (e Endpoint) WithHeader(name, value string) Endpoint {
	e.Headers = e.Headers.Set(header.Parse(name), value)
	return e
}

// WithHeaders returns a copy of e with h merged over its explicit headers.
func (e Endpoint) WithHeaders(h header.Headers) Endpoint {
	e.Headers = e.Headers.Merge(h)
	return e
}

// HasBody reports whether the call sends its parameters in the body.
func (e Endpoint) HasBody() bool {
	return e.Params != nil && e.Method.ParamsInBody()
}

// EffectiveHeaders returns the explicit headers plus the content type derived
// from Params when the parameters travel in the body. An explicit
// Content-Type always wins.
func (e Endpoint) EffectiveHeaders() header.Headers {
	if !e.HasBody() {
		return e.Headers
	}
	return e.Headers.WithDefault(header.FieldContentType, e.Params.ContentType())
}

// Descriptor is a fully resolved outgoing request: absolute URL, wire method,
// the complete header set and the body. A nil Body means no body is sent.
type Descriptor struct {
	Method  method.Method
	URL     *url.URL
	Headers header.Headers
	Body    []byte
}

// Build resolves e against base. Header precedence, highest first: explicit
// endpoint headers, the params content type, then defaults.
func (e Endpoint) Build(base *url.URL, defaults header.Headers) (Descriptor, error) {
	var query []params.QueryItem
	var body []byte

	// Route the parameters; methods that take none drop them
	if e.Params != nil {
		if e.Method.ParamsInBody() {
			body = e.Params.Body()
		} else if e.Method.ParamsInQuery() {
			query = e.Params.Query()
		}
	}

	// Build the URL
	u, err := Join(base, e.Path, query)
	if err != nil {
		return Descriptor{}, fmt.Errorf("build %s %s: %w", e.Method, e.Path, err)
	}

	return Descriptor{
		Method:  e.Method,
		URL:     u,
		Headers: defaults.Merge(e.EffectiveHeaders()),
		Body:    body,
	}, nil
}

// ContentType returns the Content-Type the descriptor will be sent with.
func (d Descriptor) ContentType() string {
	v, _ := d.Headers.Get(header.FieldContentType)
	return v
}

func (d Descriptor) String() string {
	if d.URL == nil {
		return d.Method.String()
	}
	return d.Method.String() + " " + d.URL.String()
}
