package cli

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/wesleyorama2/courier/params"
)

// splitURL splits a command-line URL into the base the host is built on and
// the path joined onto it. A missing scheme defaults to http. The query
// string stays on the base, where it survives the join untouched; the
// fragment is never sent and is dropped.
func splitURL(raw string) (string, string, error) {
	// Add scheme if missing
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid URL %q: missing host", raw)
	}

	base := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, RawQuery: u.RawQuery}
	return base.String(), u.Path, nil
}

// normalizeURL adds the default scheme and drops the fragment.
func normalizeURL(raw string) (string, error) {
	base, path, err := splitURL(raw)
	if err != nil {
		return "", err
	}
	u, _ := url.Parse(base)
	u.Path = path
	return u.String(), nil
}

// parseItems reads name=value pairs; a bare name becomes a flag item.
func parseItems(raw []string) []params.QueryItem {
	items := make([]params.QueryItem, 0, len(raw))
	for _, r := range raw {
		if name, value, ok := strings.Cut(r, "="); ok {
			items = append(items, params.Item(name, value))
		} else {
			items = append(items, params.Flag(r))
		}
	}
	return items
}

// parseVars reads name=value pairs into a map.
func parseVars(raw []string) (map[string]string, error) {
	vars := make(map[string]string, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q (want name=value)", r)
		}
		vars[name] = value
	}
	return vars, nil
}

func sortedNames(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
