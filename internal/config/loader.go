// Package config loads courier request files: named profiles (base URL,
// default headers, timeout, variables) and named endpoints that the run
// command sends against a profile.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
)

var (
	// ErrNotFound is returned for unknown files, profiles and endpoints.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a file fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// File is the top-level structure of a request file
type File struct {
	Profiles  map[string]Profile  `json:"profiles" yaml:"profiles"`
	Endpoints map[string]Endpoint `json:"endpoints" yaml:"endpoints"`
	// Schemas are JSON Schema documents referenced by endpoints
	Schemas map[string]any `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// Profile is one target environment
type Profile struct {
	BaseURL   string            `json:"baseUrl" yaml:"baseUrl"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout   string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Endpoint is one request template. At most one of Query, Form and JSON is
// set. Strings may reference variables as {{name}}.
type Endpoint struct {
	Method  string            `json:"method" yaml:"method"`
	Path    string            `json:"path" yaml:"path"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Form    map[string]string `json:"form,omitempty" yaml:"form,omitempty"`
	JSON    any               `json:"json,omitempty" yaml:"json,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// ParamsInQuery sends a POST's form parameters in the query string.
	ParamsInQuery bool `json:"paramsInQuery,omitempty" yaml:"paramsInQuery,omitempty"`
	// Extract maps variable names to JSONPath expressions evaluated on the
	// response body.
	Extract map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`
	// Schema names an entry in File.Schemas the response must satisfy.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Load reads and validates a request file. Files ending in .json are
// parsed as JSON, everything else as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes and validates a request file in the given format ("json"
// or "yaml").
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if errs := Validate(&f); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return &f, nil
}

// Profile returns the named profile.
func (f *File) Profile(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Endpoint returns the named endpoint.
func (f *File) Endpoint(name string) (Endpoint, error) {
	e, ok := f.Endpoints[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("endpoint %w: %s", ErrNotFound, name)
	}
	return e, nil
}

// Schema returns the named schema as a JSON document.
func (f *File) Schema(name string) ([]byte, error) {
	s, ok := f.Schemas[name]
	if !ok {
		return nil, fmt.Errorf("schema %w: %s", ErrNotFound, name)
	}
	v, err := jsonvalue.FromAny(normalizeYAML(s))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return jsonvalue.Marshal(v), nil
}

// EndpointNames lists endpoints in name order.
func (f *File) EndpointNames() []string {
	names := make([]string, 0, len(f.Endpoints))
	for name := range f.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HostConfig turns the profile into a host configuration with vars
// substituted. Transport and logger are left for the caller.
func (p Profile) HostConfig(vars map[string]string) (host.Config, error) {
	cfg := host.Config{
		BaseURL: Substitute(p.BaseURL, vars),
		Headers: header.FromMap(SubstituteMap(p.Headers, vars)),
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return host.Config{}, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// WireMethod is the endpoint's method, with ParamsInQuery applied.
func (e Endpoint) WireMethod() (method.Method, error) {
	m, err := method.Parse(e.Method)
	if err != nil {
		return m, err
	}
	if e.ParamsInQuery && m == method.Post {
		return method.PostQuery, nil
	}
	return m, nil
}

// Build turns the template into an endpoint with vars substituted.
func (e Endpoint) Build(vars map[string]string) (endpoint.Endpoint, error) {
	m, err := e.WireMethod()
	if err != nil {
		return endpoint.Endpoint{}, err
	}

	ep := endpoint.New(m, Substitute(e.Path, vars)).
		WithHeaders(header.FromMap(SubstituteMap(e.Headers, vars)))

	switch {
	case e.JSON != nil:
		obj, err := jsonvalue.ValidObject(substituteAny(normalizeYAML(e.JSON), vars))
		if err != nil {
			return endpoint.Endpoint{}, fmt.Errorf("json body: %w", err)
		}
		ep = ep.WithParams(params.JSON(obj))
	case len(e.Form) > 0:
		ep = ep.WithParams(params.Form(items(SubstituteMap(e.Form, vars))...))
	case len(e.Query) > 0:
		ep = ep.WithParams(params.Form(items(SubstituteMap(e.Query, vars))...))
	}
	return ep, nil
}

// items turns a map into query items sorted by name.
func items(m map[string]string) []params.QueryItem {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]params.QueryItem, 0, len(m))
	for _, name := range names {
		out = append(out, params.Item(name, m[name]))
	}
	return out
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Substitute replaces {{name}} with vars[name]. Unknown names are left in
// place.
func Substitute(input string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(input, "{{") {
		return input
	}
	return placeholder.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// SubstituteMap applies Substitute to every value.
func SubstituteMap(input map[string]string, vars map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = Substitute(value, vars)
	}
	return out
}

// Placeholders lists the variable names referenced by input.
func Placeholders(input string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(input, -1) {
		names = append(names, m[1])
	}
	return names
}

// substituteAny walks decoded JSON or YAML and substitutes string leaves.
func substituteAny(v any, vars map[string]string) any {
	switch x := v.(type) {
	case string:
		return Substitute(x, vars)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = substituteAny(item, vars)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = substituteAny(item, vars)
		}
		return out
	default:
		return v
	}
}

// normalizeYAML converts map[any]any, which older YAML documents can
// produce for non-string keys, into map[string]any.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

// MergeVariables merges variable sets, later sets taking precedence
func MergeVariables(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, set := range sets {
		for key, value := range set {
			out[key] = value
		}
	}
	return out
}
