// Package transporttest provides a scripted Transport for tests. Replies are
// chosen by matching the outgoing URL against urlmatch patterns, in the
// order they were registered.
package transporttest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/wesleyorama2/courier/transport"
	"github.com/wesleyorama2/courier/urlmatch"
)

// ErrNoRoute is reported when no registered pattern matches a request.
var ErrNoRoute = errors.New("transporttest: no reply registered for request")

// Reply is one scripted outcome. Body, Meta and Err are passed to the
// completion exactly as given, so contract-breaking triads can be scripted
// too.
type Reply struct {
	Body []byte
	Meta *transport.Metadata
	Err  error
	// Delay holds the reply back. Cancelling the request context during the
	// delay completes with a cancellation error instead.
	Delay time.Duration
}

// Status builds a well-formed reply with the given status code and body.
// Headers are given as alternating name/value pairs.
func Status(code int, body string, headerPairs ...string) Reply {
	h := http.Header{}
	for i := 0; i+1 < len(headerPairs); i += 2 {
		h.Add(headerPairs[i], headerPairs[i+1])
	}
	return Reply{
		Body: []byte(body),
		Meta: &transport.Metadata{StatusCode: code, Header: h, Proto: "HTTP/1.1"},
	}
}

// JSON builds a 200 reply with a JSON body.
func JSON(body string) Reply {
	return Status(http.StatusOK, body, "Content-Type", "application/json")
}

// Fail builds a reply that completes with err only.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// Raw builds a reply from an arbitrary triad.
func Raw(body []byte, meta *transport.Metadata, err error) Reply {
	return Reply{Body: body, Meta: meta, Err: err}
}

// After returns r delayed by d.
func (r Reply) After(d time.Duration) Reply {
	r.Delay = d
	return r
}

type route struct {
	matcher urlmatch.Matcher
	reply   Reply
}

// Transport is a scripted transport.Transport. It is safe for concurrent
// use.
type Transport struct {
	mu     sync.Mutex
	routes []route
	calls  []transport.Outgoing
}

// New creates an empty scripted transport
func New() *Transport {
	return &Transport{}
}

// On registers reply for URLs matching m. Earlier registrations win.
func (t *Transport) On(m urlmatch.Matcher, reply Reply) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route{matcher: m, reply: reply})
	return t
}

// Always registers reply for every URL.
func (t *Transport) Always(reply Reply) *Transport {
	return t.On(urlmatch.Any, reply)
}

// Calls returns every request received so far, in arrival order.
func (t *Transport) Calls() []transport.Outgoing {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]transport.Outgoing, len(t.calls))
	copy(out, t.calls)
	return out
}

// Last returns the most recent request.
func (t *Transport) Last() (transport.Outgoing, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return transport.Outgoing{}, false
	}
	return t.calls[len(t.calls)-1], true
}

// Do implements transport.Transport. Undelayed replies complete on the
// calling goroutine.
func (t *Transport) Do(ctx context.Context, out transport.Outgoing, done transport.Completion) {
	t.mu.Lock()
	t.calls = append(t.calls, out)
	reply, ok := t.match(out)
	t.mu.Unlock()

	if !ok {
		done(nil, nil, fmt.Errorf("%w: %s %s", ErrNoRoute, out.Method, out.URL))
		return
	}

	if reply.Delay <= 0 {
		done(reply.Body, reply.Meta, reply.Err)
		return
	}

	go func() {
		timer := time.NewTimer(reply.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			done(nil, nil, &transport.Error{Op: "send", Method: out.Method, URL: out.URL.String(), Err: ctx.Err()})
		case <-timer.C:
			done(reply.Body, reply.Meta, reply.Err)
		}
	}()
}

func (t *Transport) match(out transport.Outgoing) (Reply, bool) {
	for _, r := range t.routes {
		if r.matcher.Match(out.URL) {
			return r.reply, true
		}
	}
	return Reply{}, false
}
