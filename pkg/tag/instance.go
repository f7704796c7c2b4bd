package tag

import (
	"maps"
	"slices"
	"strings"
)

// Instance is a concrete occurrence of a tag: its declared type plus the
// attribute values set explicitly on it. Everything else is inherited.
//
// Instances are values. [Instance.With] copies; nothing in this module
// mutates an instance it was handed.
type Instance struct {
	Type   ID
	Values map[string]Value
}

// Of returns an instance of t with no explicit values.
func Of(t ID) Instance {
	return Instance{Type: t}
}

// With returns a copy of i with name set to v.
func (i Instance) With(name string, v Value) Instance {
	values := make(map[string]Value, len(i.Values)+1)
	maps.Copy(values, i.Values)
	values[name] = v
	return Instance{Type: i.Type, Values: values}
}

// Get returns the explicitly supplied value of name.
func (i Instance) Get(name string) (Value, bool) {
	v, ok := i.Values[name]
	return v, ok
}

// Keys returns the explicitly supplied attribute names, sorted.
func (i Instance) Keys() []string {
	return slices.Sorted(maps.Keys(i.Values))
}

// String formats the instance as "@Type(a=1, b=\"x\")".
func (i Instance) String() string {
	if len(i.Values) == 0 {
		return "@" + string(i.Type)
	}
	parts := make([]string, 0, len(i.Values))
	for _, k := range i.Keys() {
		parts = append(parts, k+"="+i.Values[k].String())
	}
	return "@" + string(i.Type) + "(" + strings.Join(parts, ", ") + ")"
}
