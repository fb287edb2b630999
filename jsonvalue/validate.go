package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// ErrInvalidJSON means a Go value cannot be represented as JSON.
var ErrInvalidJSON = errors.New("the given object is not valid JSON")

// FromAny converts a plain Go value into a Value. Supported inputs are nil,
// bool, string, every integer and float kind (except NaN and infinities),
// json.Number, json.RawMessage, Value, Object, and slices or string-keyed maps
// of those. Map keys are sorted so the result is deterministic.
func FromAny(in any) (Value, error) {
	return fromAny(in, "$")
}

// ValidObject checks that in is a JSON object made only of representable
// values and returns it in validated, immutable form. This is the one-time
// validation step that makes an object safe to serialise later.
func ValidObject(in any) (Object, error) {
	v, err := FromAny(in)
	if err != nil {
		return Object{}, err
	}
	o, ok := v.AsObject()
	if !ok {
		return Object{}, fmt.Errorf("%w: top level is %s, not object", ErrInvalidJSON, v.Kind())
	}
	return o, nil
}

// MustObject is ValidObject for literals known to be valid. It panics
// otherwise.
func MustObject(in any) Object {
	o, err := ValidObject(in)
	if err != nil {
		panic(err)
	}
	return o
}

func fromAny(in any, path string) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case Object:
		return ObjectValue(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if _, err := strconv.ParseFloat(string(x), 64); err != nil {
			return Value{}, fmt.Errorf("%w: %s: bad number %q", ErrInvalidJSON, path, x)
		}
		return Value{kind: KindNumber, num: string(x)}, nil
	case json.RawMessage:
		v, err := Parse(x)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, path, err)
		}
		return v, nil
	case float64:
		return floatValue(x, path)
	case float32:
		return floatValue(float64(x), path)
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Value{kind: KindNumber, num: strconv.FormatUint(uint64(x), 10)}, nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Value{kind: KindNumber, num: strconv.FormatUint(x, 10)}, nil
	case []Value:
		return Array(x...), nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := fromAny(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]any:
		return objectFromMap(x, path)
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, s := range x {
			m[k] = s
		}
		return objectFromMap(m, path)
	}

	// Fall back to reflection for typed slices and maps such as []string or
	// map[string]int.
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := fromAny(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindArray, arr: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: %s: map keys must be strings", ErrInvalidJSON, path)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return objectFromMap(m, path)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromAny(rv.Elem().Interface(), path)
	}

	return Value{}, fmt.Errorf("%w: %s: unsupported type %T", ErrInvalidJSON, path, in)
}

func floatValue(f float64, path string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: %s: %v is not representable", ErrInvalidJSON, path, f)
	}
	return Float(f), nil
}

func objectFromMap(m map[string]any, path string) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := newBuilder()
	for _, k := range keys {
		v, err := fromAny(m[k], path+"."+k)
		if err != nil {
			return Value{}, err
		}
		b.set(k, v)
	}
	return ObjectValue(b.object()), nil
}

// Interface converts v back into plain Go values: nil, bool, json.Number,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.num)
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		return v.obj.Map()
	default:
		return nil
	}
}

// Map converts o into a map[string]any. Member order is lost.
func (o Object) Map() map[string]any {
	out := make(map[string]any, len(o.members))
	for _, m := range o.members {
		out[m.Key] = m.Value.Interface()
	}
	return out
}
