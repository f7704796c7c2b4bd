package tag

import (
	"slices"
	"strconv"
	"strings"
)

// Value is an immutable attribute value tagged with its kind.
//
// The zero Value is invalid; use the constructors. Accessors report false
// when the value has a different kind, so a bool is never read as a string.
type Value struct {
	kind Kind
	elem Kind
	s    string
	n    float64
	b    bool
	list []Value
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Bool returns a bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Enum returns an enum value holding symbol.
func Enum(symbol string) Value { return Value{kind: KindEnum, s: symbol} }

// TypeRef returns a value referencing tag type id.
func TypeRef(id ID) Value { return Value{kind: KindType, s: string(id)} }

// Array returns an array of elem-kind items. Items of another kind make the
// value unacceptable to every [Type].
func Array(elem Kind, items ...Value) Value {
	return Value{kind: KindArray, elem: elem, list: slices.Clone(items)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Elem returns the element kind of an array value.
func (v Value) Elem() Kind { return v.elem }

// IsValid reports whether v was built by a constructor.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsString returns the text of a string value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number of a number value.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsBool returns the bool of a bool value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsEnum returns the symbol of an enum value.
func (v Value) AsEnum() (string, bool) { return v.s, v.kind == KindEnum }

// AsType returns the referenced tag type of a type value.
func (v Value) AsType() (ID, bool) { return ID(v.s), v.kind == KindType }

// AsArray returns a copy of the items of an array value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Type returns the narrowest type accepting v. Enum symbols are not inferred.
func (v Value) Type() Type {
	return Type{Kind: v.kind, Elem: v.elem}
}

// Interface returns the value as a plain Go value: string, float64, bool,
// string (enum symbol), ID, or []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString, KindEnum:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	case KindType:
		return ID(v.s)
	case KindArray:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	}
	return nil
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.elem != o.elem {
		return false
	}
	switch v.kind {
	case KindString, KindEnum, KindType:
		return v.s == o.s
	case KindNumber:
		return v.n == o.n
	case KindBool:
		return v.b == o.b
	case KindArray:
		return slices.EqualFunc(v.list, o.list, Value.Equal)
	}
	return true
}

// String formats the value: strings quoted, enums and types bare, arrays
// as "[a, b]".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindEnum:
		return v.s
	case KindType:
		return "@" + v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "<invalid>"
}
