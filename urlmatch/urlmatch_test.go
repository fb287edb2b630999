package urlmatch

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestHost(t *testing.T) {
	u := mustURL(t, "http://example.com:8080/foo")

	assert.True(t, Host("example.com").Match(u))
	for _, h := range []string{"example", "example.net", "www.example.com", "example.com.au"} {
		assert.False(t, Host(h).Match(u), h)
	}
}

func TestPath(t *testing.T) {
	u := mustURL(t, "http://example.com/foo")

	assert.True(t, Path("/foo").Match(u))
	for _, p := range []string{"/", "foo", "/foo/"} {
		assert.False(t, Path(p).Match(u), p)
	}
}

func TestComponents(t *testing.T) {
	tests := []struct {
		url      string
		expected []string
	}{
		{url: "http://example.com/foo/bar", expected: []string{"/", "foo", "bar"}},
		{url: "http://example.com/foo/bar/", expected: []string{"/", "foo", "bar"}},
		{url: "http://example.com/", expected: []string{"/"}},
		{url: "http://example.com", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, Components(mustURL(t, tt.url)))
		})
	}
}

func TestPathComponents(t *testing.T) {
	foobar := mustURL(t, "http://example.com/foo/bar")

	assert.True(t, PathComponents("/", "foo", "bar").Match(foobar))
	assert.True(t, PathComponents("/", "foo", "bar").Match(mustURL(t, "http://example.com/foo/bar/")))

	misses := [][]string{
		{"foo", "bar"},
		{"/", "foo", "barr", "baz"},
		{"/", "foo", "bar", "baz"},
		{"/", "foo", "ba"},
		{"/", "foo"},
		{"/"},
	}
	for _, c := range misses {
		assert.False(t, PathComponents(c...).Match(foobar), "%v", c)
	}

	assert.True(t, PathComponents().Match(mustURL(t, "http://example.com")))
	assert.False(t, PathComponents("/").Match(mustURL(t, "http://example.com")))
	assert.True(t, PathComponents("/").Match(mustURL(t, "http://example.com/")))
	assert.False(t, PathComponents().Match(mustURL(t, "http://example.com/")))
}

func TestPathPrefix(t *testing.T) {
	u := mustURL(t, "http://example.com/foo/bar")

	for _, p := range []string{"/", "/foo/", "/foo/bar"} {
		assert.True(t, PathPrefix(p).Match(u), p)
	}
	for _, p := range []string{"/foo/bar/", "/foo/bar/baz", "/foo/bo"} {
		assert.False(t, PathPrefix(p).Match(u), p)
	}
}

func TestPathPrefixComponents(t *testing.T) {
	foobar := mustURL(t, "http://example.com/foo/bar")

	hits := [][]string{{}, {"/"}, {"/", "foo"}, {"/", "foo", "bar"}}
	for _, c := range hits {
		assert.True(t, PathPrefixComponents(c...).Match(foobar), "%v", c)
	}

	misses := [][]string{
		{"/", "foo", "barr"},
		{"/", "foo", "bar", "baz"},
		{"/", "foo", "ba"},
		{"foo", "bar"},
		{"/", "foo", "bar", "/"},
	}
	for _, c := range misses {
		assert.False(t, PathPrefixComponents(c...).Match(foobar), "%v", c)
	}

	assert.True(t, PathPrefixComponents("/").Match(mustURL(t, "http://example.com/")))
	assert.False(t, PathPrefixComponents("/").Match(mustURL(t, "http://example.com")))
	assert.True(t, PathPrefixComponents().Match(mustURL(t, "http://example.com")))
}

func TestAll(t *testing.T) {
	u := mustURL(t, "http://example.com/foo")

	assert.True(t, All(Host("example.com"), Path("/foo")).Match(u))
	assert.False(t, All(Host("example.com"), Path("/bar")).Match(u))
	assert.True(t, All().Match(u))
	assert.True(t, Any.Match(nil))
}
