package header

import (
	"net/http"
	"sort"
)

type entry struct {
	field Field
	value string
}

// Headers is an immutable set of header values keyed case-insensitively by
// Field. The zero value is an empty set. Every "mutating" method returns a new
// set and leaves the receiver untouched, so a Headers value can be shared
// freely between goroutines.
type Headers struct {
	entries map[string]entry
}

// New builds a set from alternating name/value pairs, the way
// http.Header-style literals are usually written in tests and call sites.
// A trailing name without a value is ignored.
func New(pairs ...string) Headers {
	h := Headers{}
	for i := 0; i+1 < len(pairs); i += 2 {
		h = h.Set(Parse(pairs[i]), pairs[i+1])
	}
	return h
}

// FromMap builds a set from a plain string map.
func FromMap(m map[string]string) Headers {
	h := Headers{entries: make(map[string]entry, len(m))}
	for name, value := range m {
		f := Parse(name)
		h.entries[f.Key()] = entry{field: f, value: value}
	}
	return h
}

// FromHTTP builds a set from an http.Header, keeping the first value of each
// name.
func FromHTTP(hdr http.Header) Headers {
	h := Headers{entries: make(map[string]entry, len(hdr))}
	for name, values := range hdr {
		if len(values) == 0 {
			continue
		}
		f := Parse(name)
		h.entries[f.Key()] = entry{field: f, value: values[0]}
	}
	return h
}

// Len returns the number of distinct header names.
func (h Headers) Len() int {
	return len(h.entries)
}

// Get returns the value stored for f.
func (h Headers) Get(f Field) (string, bool) {
	e, ok := h.entries[f.Key()]
	return e.value, ok
}

// Has reports whether f is present.
func (h Headers) Has(f Field) bool {
	_, ok := h.entries[f.Key()]
	return ok
}

// Set returns a copy of h with f set to value, replacing any value stored
// under a differently-cased spelling of the same name.
func (h Headers) Set(f Field, value string) Headers {
	out := h.clone(1)
	out.entries[f.Key()] = entry{field: f, value: value}
	return out
}

// Delete returns a copy of h without f.
func (h Headers) Delete(f Field) Headers {
	out := h.clone(0)
	delete(out.entries, f.Key())
	return out
}

// Merge returns a copy of h overlaid with every entry of over. Entries in over
// win.
func (h Headers) Merge(over Headers) Headers {
	out := h.clone(len(over.entries))
	for k, e := range over.entries {
		out.entries[k] = e
	}
	return out
}

// WithDefault returns a copy of h with f set to value only if h has no entry
// for f yet.
func (h Headers) WithDefault(f Field, value string) Headers {
	if h.Has(f) {
		return h
	}
	return h.Set(f, value)
}

// Each calls fn for every entry in name order.
func (h Headers) Each(fn func(f Field, value string)) {
	keys := make([]string, 0, len(h.entries))
	for k := range h.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := h.entries[k]
		fn(e.field, e.value)
	}
}

// Map returns the set as a plain map keyed by wire spelling.
func (h Headers) Map() map[string]string {
	m := make(map[string]string, len(h.entries))
	for _, e := range h.entries {
		m[e.field.String()] = e.value
	}
	return m
}

// HTTP converts the set into a fresh http.Header.
func (h Headers) HTTP() http.Header {
	out := make(http.Header, len(h.entries))
	for _, e := range h.entries {
		out.Set(e.field.String(), e.value)
	}
	return out
}

func (h Headers) clone(extra int) Headers {
	out := Headers{entries: make(map[string]entry, len(h.entries)+extra)}
	for k, e := range h.entries {
		out.entries[k] = e
	}
	return out
}
