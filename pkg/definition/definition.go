package definition

import (
	"slices"

	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Definition is a loaded tag type. All accessors return copies or values;
// a Definition never changes after the loader produced it.
type Definition struct {
	id        tag.ID
	attrs     []tag.AttributeSpec
	parents   []tag.ID
	overrides []tag.Override
	aliases   []tag.Alias
	composes  []tag.ID
}

func newDefinition(d tag.Descriptor) *Definition {
	def := &Definition{
		id:        d.Name,
		parents:   slices.Clone(d.Extends),
		overrides: slices.Clone(d.Overrides),
		aliases:   slices.Clone(d.Aliases),
		composes:  slices.Clone(d.Composes),
	}
	def.attrs = make([]tag.AttributeSpec, len(d.Attributes))
	for i, a := range d.Attributes {
		a.Type.Enum = slices.Clone(a.Type.Enum)
		if a.Default != nil {
			v := *a.Default
			a.Default = &v
		}
		def.attrs[i] = a
	}
	return def
}

// ID returns the tag type name.
func (d *Definition) ID() tag.ID { return d.id }

// Attributes returns the declared attribute specs in declaration order.
func (d *Definition) Attributes() []tag.AttributeSpec { return slices.Clone(d.attrs) }

// Attribute returns the spec of an attribute declared by this type itself.
func (d *Definition) Attribute(name string) (tag.AttributeSpec, bool) {
	for _, a := range d.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return tag.AttributeSpec{}, false
}

// Parents returns the direct parent types in declaration order.
func (d *Definition) Parents() []tag.ID { return slices.Clone(d.parents) }

// Overrides returns the declared overrides in declaration order.
func (d *Definition) Overrides() []tag.Override { return slices.Clone(d.overrides) }

// Override returns the value this type overrides name with.
func (d *Definition) Override(name string) (tag.Value, bool) {
	for _, o := range d.overrides {
		if o.Attribute == name {
			return o.Value, true
		}
	}
	return tag.Value{}, false
}

// Aliases returns the aliases declared by this type, component aliases
// included.
func (d *Definition) Aliases() []tag.Alias { return slices.Clone(d.aliases) }

// Alias returns the non-component alias declared for name.
func (d *Definition) Alias(name string) (tag.Alias, bool) {
	for _, a := range d.aliases {
		if a.Name == name && !a.IsComponentAlias() {
			return a, true
		}
	}
	return tag.Alias{}, false
}

// ComponentAliases returns the aliases that map onto component type c.
func (d *Definition) ComponentAliases(c tag.ID) []tag.Alias {
	var out []tag.Alias
	for _, a := range d.aliases {
		if a.Component == c {
			out = append(out, a)
		}
	}
	return out
}

// Composes returns the component types of a composite, in declaration order.
func (d *Definition) Composes() []tag.ID { return slices.Clone(d.composes) }

// IsComposite reports whether the type lists components.
func (d *Definition) IsComposite() bool { return len(d.composes) > 0 }

// Provides reports whether the type itself supplies a value source for name:
// a declared spec or an override.
func (d *Definition) Provides(name string) bool {
	if _, ok := d.Attribute(name); ok {
		return true
	}
	_, ok := d.Override(name)
	return ok
}

// ValueOf returns the value this type supplies for name, preferring its own
// override to its own spec default. ok is false when the type does not
// provide name; defined is false when it provides name without a value
// (a required attribute).
func (d *Definition) ValueOf(name string) (v tag.Value, defined, ok bool) {
	if o, found := d.Override(name); found {
		return o, true, true
	}
	if a, found := d.Attribute(name); found {
		if a.Default == nil {
			return tag.Value{}, false, true
		}
		return *a.Default, true, true
	}
	return tag.Value{}, false, false
}

// Descriptor returns a descriptor equivalent to the one loaded.
func (d *Definition) Descriptor() tag.Descriptor {
	return tag.Descriptor{
		Name:       d.id,
		Attributes: d.Attributes(),
		Extends:    d.Parents(),
		Overrides:  d.Overrides(),
		Aliases:    d.Aliases(),
		Composes:   d.Composes(),
	}
}
