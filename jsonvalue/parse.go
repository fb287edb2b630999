package jsonvalue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrParse means the bytes are not well-formed JSON.
	ErrParse = errors.New("invalid JSON document")
	// ErrNotObject means the JSON parsed but was not an object.
	ErrNotObject = errors.New("expected an object, but got some other JSON type")
	// ErrNotArray means the JSON parsed but was not an array.
	ErrNotArray = errors.New("expected an array, but got some other JSON type")
)

// Parse decodes a complete JSON document.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("%w (%d bytes)", ErrParse, len(data))
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// ParseObject decodes data and requires the top level to be an object.
func ParseObject(data []byte) (Object, error) {
	v, err := Parse(data)
	if err != nil {
		return Object{}, err
	}
	o, ok := v.AsObject()
	if !ok {
		return Object{}, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}
	return o, nil
}

// ParseArray decodes data and requires the top level to be an array.
func ParseArray(data []byte) ([]Value, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotArray, v.Kind())
	}
	return arr, nil
}

// fromResult converts a gjson result tree into a Value, keeping object member
// order as it appears in the source.
func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Value{kind: KindNumber, num: strings.TrimSpace(r.Raw)}
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			items := []Value{}
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return Value{kind: KindArray, arr: items}
		}
		b := newBuilder()
		r.ForEach(func(key, item gjson.Result) bool {
			b.set(key.Str, fromResult(item))
			return true
		})
		return ObjectValue(b.object())
	}
	return Null()
}

// builder assembles an Object in place, avoiding the copy-per-member cost of
// Object.With.
type builder struct {
	o Object
}

func newBuilder() *builder {
	return &builder{o: Object{index: map[string]int{}}}
}

func (b *builder) set(key string, v Value) {
	if i, ok := b.o.index[key]; ok {
		b.o.members[i].Value = v
		return
	}
	b.o.index[key] = len(b.o.members)
	b.o.members = append(b.o.members, Member{Key: key, Value: v})
}

func (b *builder) object() Object {
	return b.o
}
