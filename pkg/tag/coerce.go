package tag

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
)

// Coerce converts a decoded scalar (as produced by TOML or JSON decoders)
// into a Value of type t. Only representation changes are performed: an
// int64 becomes a number, a string becomes an enum symbol or type reference.
// A value of the wrong kind is rejected with INVALID_VALUE.
func Coerce(raw any, t Type) (Value, error) {
	if v, ok := raw.(Value); ok {
		if !t.Accepts(v) {
			return Value{}, invalid(raw, t)
		}
		return v, nil
	}

	var v Value
	switch t.Kind {
	case KindString, KindEnum, KindType:
		s, ok := raw.(string)
		if !ok {
			return Value{}, invalid(raw, t)
		}
		v = scalar(t.Kind, s)
	case KindNumber:
		n, ok := toFloat(raw)
		if !ok {
			return Value{}, invalid(raw, t)
		}
		v = Number(n)
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, invalid(raw, t)
		}
		v = Bool(b)
	case KindArray:
		items, ok := toSlice(raw)
		if !ok {
			return Value{}, invalid(raw, t)
		}
		elem := t.Element()
		list := make([]Value, len(items))
		for i, item := range items {
			iv, err := Coerce(item, elem)
			if err != nil {
				return Value{}, err
			}
			list[i] = iv
		}
		v = Array(t.Elem, list...)
	default:
		return Value{}, errs.New(errs.ErrCodeInvalidValue, "cannot coerce to %s", t)
	}

	if !t.Accepts(v) {
		return Value{}, invalid(raw, t)
	}
	return v, nil
}

// Infer builds a Value from a decoded scalar without a declared type.
// Strings infer as strings, integers and floats as numbers. Arrays must be
// homogeneous.
func Infer(raw any) (Value, error) {
	switch x := raw.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	}
	if n, ok := toFloat(raw); ok {
		return Number(n), nil
	}
	items, ok := toSlice(raw)
	if !ok {
		return Value{}, errs.New(errs.ErrCodeInvalidValue, "unsupported value %v (%T)", raw, raw)
	}
	list := make([]Value, len(items))
	elem := KindString
	for i, item := range items {
		iv, err := Infer(item)
		if err != nil {
			return Value{}, err
		}
		if iv.Kind() == KindArray {
			return Value{}, errs.New(errs.ErrCodeInvalidValue, "nested arrays are not supported")
		}
		if i == 0 {
			elem = iv.Kind()
		} else if iv.Kind() != elem {
			return Value{}, errs.New(errs.ErrCodeInvalidValue, "mixed array of %s and %s", elem, iv.Kind())
		}
		list[i] = iv
	}
	return Array(elem, list...), nil
}

// Parse reads the textual form of a value of type t, as written in struct
// tags and on the command line. Arrays are "[a|b|c]" (brackets optional).
// Strings may be double-quoted to keep separators.
func Parse(text string, t Type) (Value, error) {
	text = strings.TrimSpace(text)
	switch t.Kind {
	case KindString:
		if unq, err := strconv.Unquote(text); err == nil && strings.HasPrefix(text, `"`) {
			text = unq
		}
		return String(text), nil
	case KindEnum, KindType:
		if text == "" {
			return Value{}, errs.New(errs.ErrCodeInvalidValue, "empty %s value", t)
		}
		v := scalar(t.Kind, text)
		if !t.Accepts(v) {
			return Value{}, errs.New(errs.ErrCodeInvalidValue, "%q is not one of %v", text, t.Enum)
		}
		return v, nil
	case KindNumber:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, errs.Wrap(errs.ErrCodeInvalidValue, err, "invalid number %q", text)
		}
		return Number(n), nil
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, errs.Wrap(errs.ErrCodeInvalidValue, err, "invalid bool %q", text)
		}
		return Bool(b), nil
	case KindArray:
		text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
		if strings.TrimSpace(text) == "" {
			return Array(t.Elem), nil
		}
		parts := strings.Split(text, "|")
		list := make([]Value, len(parts))
		for i, p := range parts {
			iv, err := Parse(p, t.Element())
			if err != nil {
				return Value{}, err
			}
			list[i] = iv
		}
		return Array(t.Elem, list...), nil
	}
	return Value{}, errs.New(errs.ErrCodeInvalidValue, "cannot parse %q as %s", text, t)
}

func scalar(k Kind, s string) Value {
	switch k {
	case KindEnum:
		return Enum(s)
	case KindType:
		return TypeRef(ID(s))
	}
	return String(s)
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toSlice(raw any) ([]any, bool) {
	switch s := raw.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out, true
	case []Value:
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = v
		}
		return out, true
	}
	return nil, false
}

func invalid(raw any, t Type) error {
	return errs.New(errs.ErrCodeInvalidValue, "value %v (%T) is not a %s", raw, raw, t)
}
