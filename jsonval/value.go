// Package jsonval models arbitrary JSON documents as a tagged union.
//
// # Overview
//
// [Value] holds exactly one of the six JSON kinds (null, boolean, number,
// string, array, object). Type checks are exhaustive switches on [Kind]
// instead of runtime probing of interface{} values.
//
// Numbers are kept as [json.Number] so integers larger than 2^53 survive a
// decode/encode round trip without float64 precision loss. Objects preserve
// member insertion order; a plain map would shuffle members on every save.
package jsonval

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which JSON kind a [Value] holds.
type Kind int

const (
	// KindNull is the JSON null, and the zero Value.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number, held as decimal text.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object with ordered members.
	KindObject
)

// String returns the kind name as it appears in JSON terminology.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
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

// Value is a single JSON value of any kind. The zero Value is null.
//
// Accessors use value receivers; mutators use pointer receivers because
// appending to an array must update the slice header in place.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *orderedmap.OrderedMap[string, Value]
}

// Null returns the JSON null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns a number value holding an integer.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// Float returns a number value holding a float.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Number returns a number value from decimal text. The text is not
// validated here; encoding fails later if it is not a valid JSON number.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array returns an array value holding the given elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object returns an empty object value.
func Object() Value {
	return Value{kind: KindObject, obj: orderedmap.New[string, Value]()}
}

// Kind returns which JSON kind this value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload, or false for any other kind.
func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.b
}

// Num returns the number payload, or "" for any other kind.
func (v Value) Num() json.Number {
	if v.kind != KindNumber {
		return ""
	}
	return v.num
}

// Str returns the string payload, or "" for any other kind.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Len returns the number of elements of an array or members of an object,
// and 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// At returns the array element at index i.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Null(), false
	}
	return v.arr[i], true
}

// Get returns the object member named name.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindObject {
		return Null(), false
	}
	return v.obj.Get(name)
}

// Set writes or overwrites the object member named name. No-op when the
// value is not an object.
func (v *Value) Set(name string, val Value) {
	if v.kind != KindObject {
		return
	}
	v.obj.Set(name, val)
}

// Delete removes the object member named name, reporting whether it existed.
func (v *Value) Delete(name string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.obj.Delete(name)
	return ok
}

// Keys returns object member names in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for p := v.obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Append adds an element to the end of an array. No-op for other kinds.
func (v *Value) Append(val Value) {
	if v.kind != KindArray {
		return
	}
	v.arr = append(v.arr, val)
}

// SetAt writes the array element at index i, growing the array with nulls
// when i is past the end. No-op for other kinds or negative indices.
func (v *Value) SetAt(i int, val Value) {
	if v.kind != KindArray || i < 0 {
		return
	}
	for len(v.arr) <= i {
		v.arr = append(v.arr, Null())
	}
	v.arr[i] = val
}

// RemoveAt deletes the array element at index i, shifting later elements
// down. Reports whether an element was removed.
func (v *Value) RemoveAt(i int) bool {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return false
	}
	v.arr = append(v.arr[:i], v.arr[i+1:]...)
	return true
}

// Items returns the array elements. Callers must not modify the slice.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		obj := orderedmap.New[string, Value]()
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			obj.Set(p.Key, p.Value.Clone())
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return v
	}
}

// Equal reports deep structural equality. Numbers compare by numeric value
// rather than text, so 1, 1.0 and 1e0 are all equal.
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
		return numEqual(v.num, o.num)
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
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			ov, ok := o.obj.Get(p.Key)
			if !ok || !p.Value.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// numEqual compares two decimal texts numerically. Integer comparison is
// attempted first so large integers beyond float64 precision compare
// exactly.
func numEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	ai, aerr := a.Int64()
	bi, berr := b.Int64()
	if aerr == nil && berr == nil {
		return ai == bi
	}
	af, aerr2 := a.Float64()
	bf, berr2 := b.Float64()
	if aerr2 != nil || berr2 != nil {
		return false
	}
	return af == bf
}

// Interface converts to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any. Object member order is lost; map consumers
// (e.g. YAML marshaling) impose their own ordering.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, err := v.num.Int64(); err == nil {
			return i
		}
		if f, err := v.num.Float64(); err == nil {
			return f
		}
		return string(v.num)
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// From converts a plain Go value into a Value. Maps convert with sorted
// keys for determinism. Unconvertible values become null.
func From(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	case json.Number:
		return Number(t)
	case string:
		return String(t)
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = From(e)
		}
		return Array(arr...)
	case []Value:
		return Array(t...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			obj.Set(k, From(t[k]))
		}
		return obj
	default:
		return Null()
	}
}

// String renders the value as compact JSON with standard escaping only.
// Errors degrade to "null"; use [Encode] when errors matter.
func (v Value) String() string {
	s, err := Encode(v, EncodeOptions{})
	if err != nil {
		return "null"
	}
	return s
}
