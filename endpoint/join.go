// Package endpoint describes one logical API call and turns it into a
// concrete outgoing request against a base URL.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wesleyorama2/courier/params"
)

// ErrMalformedURL is returned when a base URL and path cannot be combined
// into a usable URL.
var ErrMalformedURL = errors.New("malformed URL")

// Join appends path to base's path and query items to base's query.
//
// An empty path leaves the base path untouched. Otherwise slashes at the
// junction are trimmed on both sides and rejoined with exactly one "/", so
// ".../default" with "/foo", "foo" or a base of ".../default/" all give
// ".../default/foo". Query items already on base are kept and new ones are
// appended after them; duplicate names are allowed. base is not modified.
func Join(base *url.URL, path string, query []params.QueryItem) (*url.URL, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: nil base URL", ErrMalformedURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base %q needs a scheme and host", ErrMalformedURL, base.String())
	}
	if err := checkPath(path); err != nil {
		return nil, err
	}

	// Copy the URL
	u := *base
	if base.User != nil {
		user := *base.User
		u.User = &user
	}

	if path != "" {
		if err := joinPath(&u, path); err != nil {
			return nil, err
		}
	}

	if len(query) > 0 {
		encoded := params.EncodeForm(query)
		if u.RawQuery == "" {
			u.RawQuery = encoded
		} else {
			u.RawQuery = u.RawQuery + "&" + encoded
		}
	}

	return &u, nil
}

// MustParse parses a base URL and panics if it is unusable. For tests and
// package-level literals.
func MustParse(raw string) *url.URL {
	u, err := ParseBase(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseBase parses raw and checks that it can serve as a base for Join.
func ParseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base %q needs a scheme and host", ErrMalformedURL, raw)
	}
	return u, nil
}

func checkPath(path string) error {
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: path %q contains a control character", ErrMalformedURL, path)
		}
		if r == '?' || r == '#' {
			return fmt.Errorf("%w: path %q contains %q; pass query items separately", ErrMalformedURL, path, r)
		}
	}
	return nil
}

func joinPath(u *url.URL, path string) error {
	tail := strings.TrimLeft(path, "/")

	if u.RawPath == "" {
		u.Path = strings.TrimRight(u.Path, "/") + "/" + tail
		return nil
	}

	// The base carries escapes that Path alone would lose (such as %2F), so
	// join the escaped forms and decode once.
	escapedTail := (&url.URL{Path: tail}).EscapedPath()
	raw := strings.TrimRight(u.RawPath, "/") + "/" + escapedTail
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	u.Path = decoded
	u.RawPath = raw
	return nil
}
