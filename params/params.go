// Package params encodes the parameter payload of an API call. A Params value
// is either a list of form items or a validated JSON object, and can project
// itself into query-string items, body bytes and a matching content type.
package params

import (
	"fmt"

	"github.com/wesleyorama2/courier/jsonvalue"
)

// Content types derived from a Params variant.
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)

// ErrNotObject is returned when JSON flattening starts from something other
// than an object.
var ErrNotObject = jsonvalue.ErrNotObject

// QueryItem is one name/value pair of a query string or form body. A nil
// Value renders as a bare name with no "=".
type QueryItem struct {
	Name  string
	Value *string
}

// Item builds a QueryItem with a value.
func Item(name, value string) QueryItem {
	return QueryItem{Name: name, Value: &value}
}

// Flag builds a QueryItem without a value.
func Flag(name string) QueryItem {
	return QueryItem{Name: name}
}

// ValueOr returns the item's value, or fallback when it has none.
func (q QueryItem) ValueOr(fallback string) string {
	if q.Value == nil {
		return fallback
	}
	return *q.Value
}

func (q QueryItem) String() string {
	if q.Value == nil {
		return q.Name
	}
	return q.Name + "=" + *q.Value
}

// Kind says which variant a Params holds.
type Kind int

const (
	KindForm Kind = iota + 1
	KindJSON
)

// Params is the parameter payload of one call. Build it with Form, JSON or
// JSONFrom; the zero value is not usable.
type Params struct {
	kind Kind
	form []QueryItem
	json jsonvalue.Object
}

// Form builds form-style parameters. Item order is preserved everywhere.
func Form(items ...QueryItem) Params {
	cp := make([]QueryItem, len(items))
	copy(cp, items)
	return Params{kind: KindForm, form: cp}
}

// JSON builds JSON parameters from an already validated object.
func JSON(obj jsonvalue.Object) Params {
	return Params{kind: KindJSON, json: obj}
}

// JSONFrom validates a Go value as a JSON object and wraps it. This is the
// construction-time check; any failure is jsonvalue.ErrInvalidJSON.
func JSONFrom(v any) (Params, error) {
	obj, err := jsonvalue.ValidObject(v)
	if err != nil {
		return Params{}, err
	}
	return JSON(obj), nil
}

// Kind reports the variant.
func (p Params) Kind() Kind {
	return p.kind
}

// Items returns the form items. It is empty for JSON params.
func (p Params) Items() []QueryItem {
	cp := make([]QueryItem, len(p.form))
	copy(cp, p.form)
	return cp
}

// Object returns the JSON object. It is empty for form params.
func (p Params) Object() jsonvalue.Object {
	return p.json
}

// Query projects the params into query-string items. Form items pass through
// unchanged; JSON objects are flattened with bracketed keys.
func (p Params) Query() []QueryItem {
	switch p.kind {
	case KindForm:
		return p.Items()
	case KindJSON:
		// The object was validated at construction, so flattening from its
		// root cannot hit the no-prefix case.
		items, _ := Flatten(p.json.Value())
		return items
	default:
		return nil
	}
}

// Body projects the params into request body bytes.
func (p Params) Body() []byte {
	switch p.kind {
	case KindForm:
		return []byte(EncodeForm(p.form))
	case KindJSON:
		return jsonvalue.Marshal(p.json.Value())
	default:
		return nil
	}
}

// ContentType returns the content type matching Body.
func (p Params) ContentType() string {
	switch p.kind {
	case KindForm:
		return ContentTypeForm
	case KindJSON:
		return ContentTypeJSON
	default:
		return ""
	}
}

func (p Params) String() string {
	switch p.kind {
	case KindForm:
		return fmt.Sprintf("form(%s)", EncodeForm(p.form))
	case KindJSON:
		return fmt.Sprintf("json(%s)", jsonvalue.Marshal(p.json.Value()))
	default:
		return "params(empty)"
	}
}
