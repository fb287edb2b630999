// Package jsonpath pulls values out of JSON response bodies with a small
// JSONPath dialect ($.a.b[0], $['a'], $[1]) evaluated by gjson.
package jsonpath

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/courier/jsonvalue"
)

var (
	ErrEmptyDocument = errors.New("jsonpath: empty JSON document")
	ErrEmptyPath     = errors.New("jsonpath: empty path expression")
	ErrNotFound      = errors.New("jsonpath: path not found")
	ErrInvalidJSON   = errors.New("jsonpath: document is not valid JSON")
)

// Extract returns the value at path in doc.
func Extract(doc []byte, path string) (jsonvalue.Value, error) {
	if len(doc) == 0 {
		return jsonvalue.Null(), ErrEmptyDocument
	}
	if path == "" {
		return jsonvalue.Null(), ErrEmptyPath
	}
	if !gjson.ValidBytes(doc) {
		return jsonvalue.Null(), ErrInvalidJSON
	}

	res := gjson.GetBytes(doc, ToGJSON(path))
	if !res.Exists() {
		return jsonvalue.Null(), fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return jsonvalue.Parse([]byte(res.Raw))
}

// ExtractText returns the value at path rendered as text: strings verbatim,
// scalars as their literal, containers as compact JSON.
func ExtractText(doc []byte, path string) (string, error) {
	v, err := Extract(doc, path)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

// ExtractAll evaluates every named path. Values that were found are
// returned even when others fail; the error lists the failures by name.
func ExtractAll(doc []byte, paths map[string]string) (map[string]string, error) {
	if len(paths) == 0 {
		return map[string]string{}, nil
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []error
	for _, name := range names {
		value, err := ExtractText(doc, paths[name])
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", name, err))
			continue
		}
		results[name] = value
	}

	return results, errors.Join(failures...)
}

// ToGJSON rewrites a JSONPath expression as a gjson path.
//
//	$                -> @this
//	$.users[0].name  -> users.0.name
//	$['a.b']         -> a\.b
func ToGJSON(path string) string {
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}

	var parts []string
	for len(path) > 0 {
		switch {
		case path[0] == '.':
			path = path[1:]
		case strings.HasPrefix(path, "['") || strings.HasPrefix(path, `["`):
			quote := path[1:2]
			end := strings.Index(path[2:], quote+"]")
			if end < 0 {
				parts = append(parts, escape(path))
				path = ""
				continue
			}
			parts = append(parts, escape(path[2:2+end]))
			path = path[2+end+2:]
		case path[0] == '[':
			end := strings.IndexByte(path, ']')
			if end < 0 {
				parts = append(parts, escape(path[1:]))
				path = ""
				continue
			}
			parts = append(parts, strings.TrimSpace(path[1:end]))
			path = path[end+1:]
		default:
			end := strings.IndexAny(path, ".[")
			if end < 0 {
				end = len(path)
			}
			parts = append(parts, path[:end])
			path = path[end:]
		}
	}

	if len(parts) == 0 {
		return "@this"
	}
	return strings.Join(parts, ".")
}

// escape protects gjson's special characters inside a quoted key.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
