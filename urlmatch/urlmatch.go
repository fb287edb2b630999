// Package urlmatch provides small predicates over URLs, used to route
// requests in test transports and to dispatch on response URLs.
package urlmatch

import (
	"net/url"
	"strings"
)

// Matcher reports whether a URL matches some pattern.
type Matcher interface {
	Match(u *url.URL) bool
}

// Func adapts a plain function to a Matcher.
type Func func(u *url.URL) bool

// Match calls f(u).
func (f Func) Match(u *url.URL) bool {
	return f(u)
}

// Any matches every URL.
var Any Matcher = Func(func(*url.URL) bool { return true })

// Host matches URLs whose host name is exactly host. Ports are ignored.
func Host(host string) Matcher {
	return Func(func(u *url.URL) bool {
		return u != nil && u.Hostname() == host
	})
}

// Path matches URLs whose decoded path equals path exactly. A trailing slash
// is significant.
func Path(path string) Matcher {
	return Func(func(u *url.URL) bool {
		return u != nil && u.Path == path
	})
}

// PathComponents matches URLs whose path splits into exactly components.
// See Components for how paths split.
func PathComponents(components ...string) Matcher {
	return Func(func(u *url.URL) bool {
		return u != nil && equal(Components(u), components)
	})
}

// PathPrefix matches URLs whose decoded path starts with prefix. This is a
// plain string prefix: "/foo/bo" matches "/foo/bob".
func PathPrefix(prefix string) Matcher {
	return Func(func(u *url.URL) bool {
		return u != nil && strings.HasPrefix(u.Path, prefix)
	})
}

// PathPrefixComponents matches URLs whose leading path components equal
// components. Unlike PathPrefix it never matches part of a component.
func PathPrefixComponents(components ...string) Matcher {
	return Func(func(u *url.URL) bool {
		if u == nil {
			return false
		}
		got := Components(u)
		if len(got) < len(components) {
			return false
		}
		return equal(got[:len(components)], components)
	})
}

// All matches when every matcher does.
func All(matchers ...Matcher) Matcher {
	return Func(func(u *url.URL) bool {
		for _, m := range matchers {
			if !m.Match(u) {
				return false
			}
		}
		return true
	})
}

// Components splits a URL's path. An absolute path starts with a "/"
// component, empty segments are dropped, so "/foo/bar/" gives
// ["/", "foo", "bar"], "/" gives ["/"] and an empty path gives none.
func Components(u *url.URL) []string {
	if u == nil || u.Path == "" {
		return nil
	}
	var out []string
	if strings.HasPrefix(u.Path, "/") {
		out = append(out, "/")
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
