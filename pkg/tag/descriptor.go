package tag

// AttributeSpec declares an attribute on a tag type.
//
// A nil Default means the attribute is required: every instance must set it
// unless an override further down the hierarchy supplies a value.
type AttributeSpec struct {
	Name    string
	Type    Type
	Default *Value
}

// Required declares an attribute without a default.
func Required(name string, t Type) AttributeSpec {
	return AttributeSpec{Name: name, Type: t}
}

// Optional declares an attribute with a default value.
func Optional(name string, t Type, def Value) AttributeSpec {
	return AttributeSpec{Name: name, Type: t, Default: &def}
}

// HasDefault reports whether the spec declares a default value.
func (a AttributeSpec) HasDefault() bool { return a.Default != nil }

// Override replaces the default of an inherited attribute for the declaring
// tag type and its descendants.
type Override struct {
	Attribute string
	Value     Value
}

// Alias redirects reads of Name to Target.
//
// With Component empty, Target is an attribute of the declaring type's own
// chain. With Component set, the declaring type is a composite and Target is
// an attribute of that component type.
type Alias struct {
	Name      string
	Target    string
	Component ID
}

// IsComponentAlias reports whether the alias maps onto a component type.
func (a Alias) IsComponentAlias() bool { return a.Component != "" }

// Descriptor is the caller-supplied description of a tag type: everything
// the definition loader needs to produce a definition node.
type Descriptor struct {
	Name       ID
	Attributes []AttributeSpec
	Extends    []ID
	Overrides  []Override
	Aliases    []Alias
	// Composes lists the component types of a composite tag type. An observed
	// composite instance stands for one instance of every component.
	Composes []ID
}
