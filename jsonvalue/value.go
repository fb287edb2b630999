// Package jsonvalue is a small tagged JSON model: every value is exactly one
// of Null, Bool, Number, String, Array or Object, and objects remember the
// order their members were added in. It is the JSON collaborator for the rest
// of courier: parsing (backed by gjson), validation of Go values and
// serialisation all live here.
package jsonvalue

import (
	"fmt"
	"strconv"
)

// Kind identifies which case a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  string // number literal exactly as written or formatted
	str  string
	arr  []Value
	obj  Object
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, num: strconv.FormatInt(i, 10)} }

// Float wraps a float. Callers must not pass NaN or infinities; FromAny
// rejects them.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Array wraps a list of values.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// ObjectValue wraps an Object.
func ObjectValue(o Object) Value { return Value{kind: KindObject, obj: o} }

// Kind reports which case v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	return f, err == nil
}

// AsInt returns the number held by v if it is an integer literal.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.num, 10, 64)
	return i, err == nil
}

// NumberLiteral returns the textual form of a number.
func (v Value) NumberLiteral() (string, bool) { return v.num, v.kind == KindNumber }

// AsArray returns the elements held by v. The slice must not be modified.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the object held by v.
func (v Value) AsObject() (Object, bool) { return v.obj, v.kind == KindObject }

// Text renders a scalar the way it appears in a query string: strings
// verbatim, numbers as their literal, booleans as true/false and null as
// "null". Containers render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		data, _ := v.MarshalJSON()
		return string(data)
	}
}

// Equal reports deep equality. Object member order is ignored; numbers
// compare by value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.num == o.num {
			return true
		}
		a, okA := v.AsFloat()
		b, okB := o.AsFloat()
		return okA && okB && a == b
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	}
	return false
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object. The zero Object is empty. Objects are
// immutable; With returns a modified copy.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject builds an object from members. A repeated key keeps its first
// position and its last value.
func NewObject(members ...Member) Object {
	b := newBuilder()
	for _, m := range members {
		b.set(m.Key, m.Value)
	}
	return b.object()
}

// Len returns the number of members.
func (o Object) Len() int { return len(o.members) }

// Get looks up a member by key.
func (o Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Keys returns member keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns a copy of the members in insertion order.
func (o Object) Members() []Member {
	cp := make([]Member, len(o.members))
	copy(cp, o.members)
	return cp
}

// With returns a copy of o with key set to v.
func (o Object) With(key string, v Value) Object {
	out := Object{
		members: make([]Member, len(o.members), len(o.members)+1),
		index:   make(map[string]int, len(o.members)+1),
	}
	copy(out.members, o.members)
	for k, i := range o.index {
		out.index[k] = i
	}
	if i, ok := out.index[key]; ok {
		out.members[i].Value = v
		return out
	}
	out.index[key] = len(out.members)
	out.members = append(out.members, Member{Key: key, Value: v})
	return out
}

// Equal reports whether both objects hold equal values under the same keys.
func (o Object) Equal(other Object) bool {
	if len(o.members) != len(other.members) {
		return false
	}
	for _, m := range o.members {
		ov, ok := other.Get(m.Key)
		if !ok || !m.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// Value wraps o as a Value.
func (o Object) Value() Value { return ObjectValue(o) }
