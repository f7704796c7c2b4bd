package tag

import (
	"fmt"
	"slices"
	"strings"
)

// ID identifies a tag type. It is the name the tag type is declared as.
type ID string

// Kind is the semantic kind of an attribute value.
type Kind uint8

const (
	// KindInvalid is the zero Kind. No attribute can be declared with it.
	KindInvalid Kind = iota
	// KindString holds free text.
	KindString
	// KindNumber holds a float64.
	KindNumber
	// KindBool holds true or false.
	KindBool
	// KindEnum holds one symbol out of the declaring type's Enum list.
	KindEnum
	// KindType holds a reference to another tag type.
	KindType
	// KindArray holds a homogeneous list of scalar values.
	KindArray
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindNumber:  "number",
	KindBool:    "bool",
	KindEnum:    "enum",
	KindType:    "type",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar reports whether k is a valid non-array kind.
func (k Kind) IsScalar() bool {
	return k >= KindString && k <= KindType
}

// ParseKind converts a scalar kind name ("string", "number", ...) to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && Kind(k).IsScalar() {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// Type is the declared value type of an attribute.
//
// Arrays are declared with Kind == KindArray and the element kind in Elem.
// Enum lists the allowed symbols for enums and arrays of enums; an empty
// list accepts any symbol.
type Type struct {
	Kind Kind
	Elem Kind
	Enum []string
}

// Predeclared scalar types.
var (
	StringType  = Type{Kind: KindString}
	NumberType  = Type{Kind: KindNumber}
	BoolType    = Type{Kind: KindBool}
	TypeRefType = Type{Kind: KindType}
)

// EnumOf declares an enum type over the given symbols.
func EnumOf(symbols ...string) Type {
	return Type{Kind: KindEnum, Enum: slices.Clone(symbols)}
}

// ArrayOf declares an array of elem. Nested arrays are not supported and
// yield an invalid type.
func ArrayOf(elem Type) Type {
	if !elem.Kind.IsScalar() {
		return Type{Kind: KindArray}
	}
	return Type{Kind: KindArray, Elem: elem.Kind, Enum: slices.Clone(elem.Enum)}
}

// ParseType parses the textual form produced by [Type.String]: a scalar kind
// name, optionally prefixed with "[]" for arrays. Enum symbols are not part
// of the textual form.
func ParseType(s string) (Type, error) {
	name, isArray := strings.CutPrefix(strings.TrimSpace(s), "[]")
	k, ok := ParseKind(name)
	if !ok {
		return Type{}, fmt.Errorf("unknown type %q", s)
	}
	if isArray {
		return Type{Kind: KindArray, Elem: k}, nil
	}
	return Type{Kind: k}, nil
}

// Valid reports whether t can be used to declare an attribute.
func (t Type) Valid() bool {
	switch {
	case t.Kind == KindArray:
		return t.Elem.IsScalar()
	case t.Kind.IsScalar():
		return t.Elem == KindInvalid
	}
	return false
}

// Element returns the type of array elements, or t itself for scalars.
func (t Type) Element() Type {
	if t.Kind != KindArray {
		return t
	}
	return Type{Kind: t.Elem, Enum: t.Enum}
}

func (t Type) String() string {
	if t.Kind == KindArray {
		return "[]" + t.Elem.String()
	}
	return t.Kind.String()
}

// Equal reports whether two types are identical, including enum symbols.
func (t Type) Equal(o Type) bool {
	return t.Kind == o.Kind && t.Elem == o.Elem && slices.Equal(t.Enum, o.Enum)
}

// Accepts reports whether v is a value of type t. There is no coercion:
// a number is never accepted for a string, a bool never for an enum.
func (t Type) Accepts(v Value) bool {
	if v.kind != t.Kind {
		return false
	}
	switch t.Kind {
	case KindEnum:
		return t.allows(v.s)
	case KindArray:
		if v.elem != t.Elem {
			return false
		}
		elem := t.Element()
		for _, item := range v.list {
			if !elem.Accepts(item) {
				return false
			}
		}
		return true
	}
	return t.Kind != KindInvalid
}

func (t Type) allows(symbol string) bool {
	return len(t.Enum) == 0 || slices.Contains(t.Enum, symbol)
}
