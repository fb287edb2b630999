// Package method enumerates HTTP request methods, including the synthetic
// PostQuery variant that is sent as POST but carries its parameters in the
// query string.
package method

import (
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method int

const (
	// Get retrieves the resource identified by the URL. Parameters go in the
	// query string.
	Get Method = iota
	// Post submits the enclosed entity. Parameters go in the body.
	Post
	// PostQuery is sent as POST but its parameters go in the query string.
	// Useful for clients and proxies that drop POST bodies.
	PostQuery
	// Put stores the enclosed entity under the URL.
	Put
	// Delete removes the resource. It never carries parameters.
	Delete
	Head
	Trace
	Connect
	Options
	Patch
)

// All lists every method, PostQuery included.
var All = []Method{Get, Post, PostQuery, Put, Delete, Head, Trace, Connect, Options, Patch}

// String returns the verb sent on the wire. PostQuery is "POST".
func (m Method) String() string {
	switch m {
	case Get:
		return "GET"
	case Post, PostQuery:
		return "POST"
	case Put:
		return "PUT"
	case Delete:
		return "DELETE"
	case Head:
		return "HEAD"
	case Trace:
		return "TRACE"
	case Connect:
		return "CONNECT"
	case Options:
		return "OPTIONS"
	case Patch:
		return "PATCH"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Parse maps a verb onto a Method, ignoring case. "POST" always yields Post,
// never PostQuery.
func Parse(s string) (Method, error) {
	for _, m := range All {
		if m == PostQuery {
			continue
		}
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown HTTP method %q", s)
}

// ParamsInQuery reports whether parameters for this method are encoded into
// the URL's query string.
func (m Method) ParamsInQuery() bool {
	return m == Get || m == PostQuery
}

// ParamsInBody reports whether parameters for this method are encoded into
// the request body.
func (m Method) ParamsInBody() bool {
	switch m {
	case Post, Put, Patch:
		return true
	default:
		return false
	}
}
