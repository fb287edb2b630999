package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/method"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a request file and returns every problem found, ordered
// by profile and endpoint name.
func Validate(f *File) []ValidationError {
	var errors []ValidationError
	add := func(path, format string, args ...any) {
		errors = append(errors, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if len(f.Profiles) == 0 {
		add("profiles", "at least one profile is required")
	}
	for _, name := range sortedKeys(f.Profiles) {
		p := f.Profiles[name]
		path := "profiles." + name

		if p.BaseURL == "" {
			add(path+".baseUrl", "baseUrl is required")
		} else if len(Placeholders(p.BaseURL)) == 0 {
			if _, err := endpoint.ParseBase(p.BaseURL); err != nil {
				add(path+".baseUrl", "%v", err)
			}
		}

		if p.Timeout != "" {
			if d, err := time.ParseDuration(p.Timeout); err != nil {
				add(path+".timeout", "invalid duration %q", p.Timeout)
			} else if d <= 0 {
				add(path+".timeout", "timeout must be positive")
			}
		}
	}

	if len(f.Endpoints) == 0 {
		add("endpoints", "at least one endpoint is required")
	}
	for _, name := range sortedKeys(f.Endpoints) {
		e := f.Endpoints[name]
		path := "endpoints." + name

		m, err := method.Parse(e.Method)
		if e.Method == "" {
			add(path+".method", "method is required")
		} else if err != nil {
			add(path+".method", "invalid method: %s", e.Method)
		}

		if e.ParamsInQuery && (err != nil || m != method.Post) {
			add(path+".paramsInQuery", "paramsInQuery only applies to POST")
		}

		set := 0
		for _, present := range []bool{len(e.Query) > 0, len(e.Form) > 0, e.JSON != nil} {
			if present {
				set++
			}
		}
		if set > 1 {
			add(path, "only one of query, form and json may be set")
		}

		if err == nil {
			hasParams := set > 0
			switch {
			case e.ParamsInQuery && m == method.Post:
				// POST with paramsInQuery: any kind, sent in the query string
			case m.ParamsInBody():
				if len(e.Query) > 0 {
					add(path+".query", "%s sends parameters in the body; use form or json", m)
				}
			case m.ParamsInQuery():
				if e.JSON != nil {
					add(path+".json", "%s sends parameters in the query string; use query", m)
				}
				if len(e.Form) > 0 {
					add(path+".form", "%s sends parameters in the query string; use query", m)
				}
			case hasParams:
				add(path, "%s takes no parameters", m)
			}
		}

		if e.JSON != nil {
			if _, ok := normalizeYAML(e.JSON).(map[string]any); !ok {
				add(path+".json", "json body must be an object")
			}
		}

		for _, varName := range sortedKeys(e.Extract) {
			if e.Extract[varName] == "" {
				add(fmt.Sprintf("%s.extract.%s", path, varName), "extract path cannot be empty")
			}
		}

		if e.Schema != "" {
			if _, ok := f.Schemas[e.Schema]; !ok {
				add(path+".schema", "schema not found: %s", e.Schema)
			}
		}
	}

	return errors
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
