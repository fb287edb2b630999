package params

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wesleyorama2/courier/jsonvalue"
)

// Escape percent-encodes s for use as a query or form component. Only the
// unreserved characters A-Z a-z 0-9 - . _ ~ are left as they are; a space
// becomes %20.
func Escape(s string) string {
	// QueryEscape already encodes a literal "+" as %2B, so the only "+" left
	// in its output stands for a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// EncodeForm renders items as name=value pairs joined by "&", in order.
func EncodeForm(items []QueryItem) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(Escape(item.Name))
		if item.Value != nil {
			sb.WriteByte('=')
			sb.WriteString(Escape(*item.Value))
		}
	}
	return sb.String()
}

// DecodeForm parses an encoded form or query string back into ordered items.
// Pairs without "=" decode to items with a nil value.
func DecodeForm(s string) ([]QueryItem, error) {
	if s == "" {
		return nil, nil
	}
	var items []QueryItem
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, hasValue := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("decode name %q: %w", rawName, err)
		}
		if !hasValue {
			items = append(items, Flag(name))
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", name, err)
		}
		items = append(items, Item(name, value))
	}
	return items, nil
}

// Flatten turns a JSON object into query items using bracketed keys:
// {"a":{"b":1},"c":[1,2]} becomes a[b]=1, c[]=1, c[]=2. Scalars end the
// recursion with their text form. The root must be an object; anything else
// fails with ErrNotObject because there is no key to hang it on.
func Flatten(root jsonvalue.Value) ([]QueryItem, error) {
	return flatten(root, "", false)
}

func flatten(v jsonvalue.Value, prefix string, hasPrefix bool) ([]QueryItem, error) {
	var items []QueryItem

	switch v.Kind() {
	case jsonvalue.KindObject:
		obj, _ := v.AsObject()
		for _, m := range obj.Members() {
			next := m.Key
			if hasPrefix {
				next = prefix + "[" + m.Key + "]"
			}
			sub, err := flatten(m.Value, next, true)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}

	case jsonvalue.KindArray:
		if !hasPrefix {
			return nil, fmt.Errorf("%w: cannot flatten a top-level array", ErrNotObject)
		}
		arr, _ := v.AsArray()
		for _, elem := range arr {
			sub, err := flatten(elem, prefix+"[]", true)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}

	default:
		if !hasPrefix {
			return nil, fmt.Errorf("%w: cannot flatten a top-level %s", ErrNotObject, v.Kind())
		}
		items = append(items, Item(prefix, v.Text()))
	}

	return items, nil
}
