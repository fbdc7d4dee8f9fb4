package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which member of a Value is populated.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindStrings
)

// Value is a single image metadata value. Metadata maps are open (any key
// is accepted) but values are restricted to a string, a number, or a list
// of strings.
type Value struct {
	Kind    ValueKind
	Str     string
	Num     float64
	Strings []string
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// StringsValue returns a list Value holding a copy of ss.
func StringsValue(ss ...string) Value {
	list := make([]string, len(ss))
	copy(list, ss)
	return Value{Kind: KindStrings, Strings: list}
}

// String renders the value as text. Numbers use the shortest decimal
// form, so a year stored as 1889 renders as "1889".
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindStrings:
		return strings.Join(v.Strings, ", ")
	default:
		return v.Str
	}
}

func (v Value) clone() Value {
	if v.Kind == KindStrings {
		return StringsValue(v.Strings...)
	}
	return v
}

// MarshalJSON writes the value as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.native())
}

// UnmarshalJSON accepts a JSON string, number, boolean, or array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, ok := valueOf(raw)
	if !ok {
		return fmt.Errorf("unsupported metadata value: %s", data)
	}
	*v = val
	return nil
}

// MarshalYAML writes the value as its natural YAML type.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.native(), nil
}

func (v Value) native() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindStrings:
		if v.Strings == nil {
			return []string{}
		}
		return v.Strings
	default:
		return v.Str
	}
}

// valueOf converts a decoded JSON value (or a Go literal of a compatible
// type) to a Value. Booleans become "true"/"false". Nulls, objects and
// arrays containing non-strings are rejected.
func valueOf(raw any) (Value, bool) {
	switch x := raw.(type) {
	case Value:
		return x.clone(), true
	case string:
		return StringValue(x), true
	case float64:
		return NumberValue(x), true
	case float32:
		return NumberValue(float64(x)), true
	case int:
		return NumberValue(float64(x)), true
	case int64:
		return NumberValue(float64(x)), true
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return Value{}, false
		}
		return NumberValue(n), true
	case bool:
		return StringValue(strconv.FormatBool(x)), true
	case []string:
		return StringsValue(x...), true
	case []any:
		list := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, false
			}
			list = append(list, s)
		}
		return Value{Kind: KindStrings, Strings: list}, true
	}
	return Value{}, false
}
