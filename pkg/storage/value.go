// Package storage implements the embeddable property-graph storage core:
// a tagged value model, node/edge identifiers, an entity façade, the
// storage contract every backend satisfies, and three concrete backends
// (native, concurrent, delta overlay).
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindSet
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// Value is a tagged, immutable sum over the property value variants this
// engine carries: null, string, signed 64-bit integer, double, bool, an
// ordered list of values, and an unordered set of values. Values are
// opaque to storage backends — they are carried through unchanged.
type Value struct {
	kind ValueKind
	str  string
	i    int64
	f    float64
	b    bool
	list []Value
}

// Null is the singular null value. A property set to Null is deleted
// (spec §3).
var Null = Value{kind: KindNull}

// NewString constructs a string value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewInt constructs a signed integer value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewFloat constructs a floating point value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// NewBool constructs a boolean value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewList constructs an ordered list value. The slice is copied.
func NewList(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// NewSet constructs an unordered set value. Duplicate elements (by Equal)
// are collapsed; order of the surviving elements is unspecified.
func NewSet(items ...Value) Value {
	uniq := make([]Value, 0, len(items))
	for _, it := range items {
		found := false
		for _, u := range uniq {
			if u.Equal(it) {
				found = true
				break
			}
		}
		if !found {
			uniq = append(uniq, it)
		}
	}
	return Value{kind: KindSet, list: uniq}
}

// Kind returns the discriminant of this value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether this is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload and whether the kind matches.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload and whether the kind matches.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float payload and whether the kind matches.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the bool payload and whether the kind matches.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsList returns the list payload and whether the kind matches.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.list, true
}

// AsSet returns the set payload (as a slice of its unique members) and
// whether the kind matches.
func (v Value) AsSet() ([]Value, bool) {
	if v.kind != KindSet {
		return nil, false
	}
	return v.list, true
}

// Equal reports structural equality: same kind and same contents. List
// equality is order-sensitive; set equality is not.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if len(v.list) != len(other.list) {
			return false
		}
		for _, a := range v.list {
			matched := false
			for _, b := range other.list {
				if a.Equal(b) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a human-readable representation, not meant to round-trip.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		return fmt.Sprintf("%v", parts)
	case KindSet:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		sort.Strings(parts)
		return fmt.Sprintf("%v", parts)
	}
	return ""
}

// wireValue is the JSON-serializable form of Value, used by adapters
// (CSV, Neo4j export) that need a stable on-disk representation.
type wireValue struct {
	Kind string      `json:"kind"`
	Val  interface{} `json:"val,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Kind: v.kind.String()}
	switch v.kind {
	case KindNull:
		// val omitted
	case KindString:
		w.Val = v.str
	case KindInt:
		w.Val = v.i
	case KindFloat:
		w.Val = v.f
	case KindBool:
		w.Val = v.b
	case KindList, KindSet:
		w.Val = v.list
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w struct {
		Kind string          `json:"kind"`
		Val  json.RawMessage `json:"val"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "null", "":
		*v = Null
	case "string":
		var s string
		if err := json.Unmarshal(w.Val, &s); err != nil {
			return err
		}
		*v = NewString(s)
	case "int":
		var i int64
		if err := json.Unmarshal(w.Val, &i); err != nil {
			return err
		}
		*v = NewInt(i)
	case "float":
		var f float64
		if err := json.Unmarshal(w.Val, &f); err != nil {
			return err
		}
		*v = NewFloat(f)
	case "bool":
		var b bool
		if err := json.Unmarshal(w.Val, &b); err != nil {
			return err
		}
		*v = NewBool(b)
	case "list":
		var items []Value
		if err := json.Unmarshal(w.Val, &items); err != nil {
			return err
		}
		*v = NewList(items...)
	case "set":
		var items []Value
		if err := json.Unmarshal(w.Val, &items); err != nil {
			return err
		}
		*v = NewSet(items...)
	default:
		return fmt.Errorf("storage: unknown value kind %q", w.Kind)
	}
	return nil
}
