package definition

import (
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// validate checks def in isolation and against the ancestors reachable
// through lookup.
func validate(def *Definition, lookup lookupFunc) error {
	id := string(def.id)

	seenParent := make(map[tag.ID]bool, len(def.parents))
	for _, p := range def.parents {
		if seenParent[p] {
			return errs.New(errs.ErrCodeInvalidInput, "%s extends %s twice", id, p).WithType(id)
		}
		seenParent[p] = true
		if _, ok := lookup(p); !ok {
			return errs.New(errs.ErrCodeUnknownParent, "%s extends unknown tag type %s", id, p).WithType(id)
		}
	}
	seenComponent := make(map[tag.ID]bool, len(def.composes))
	for _, c := range def.composes {
		if seenComponent[c] {
			return errs.New(errs.ErrCodeInvalidInput, "%s composes %s twice", id, c).WithType(id)
		}
		seenComponent[c] = true
		if c == def.id {
			return errs.New(errs.ErrCodeInvalidInput, "%s cannot compose itself", id).WithType(id)
		}
		if _, ok := lookup(c); !ok {
			return errs.New(errs.ErrCodeUnknownParent, "%s composes unknown tag type %s", id, c).WithType(id)
		}
	}

	own := make(map[string]bool, len(def.attrs))
	for _, a := range def.attrs {
		if err := errs.ValidateAttributeName(a.Name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid attribute on %s", id).WithType(id).WithAttribute(a.Name)
		}
		if own[a.Name] {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s declares %q twice", id, a.Name).WithType(id).WithAttribute(a.Name)
		}
		own[a.Name] = true
		if !a.Type.Valid() {
			return errs.New(errs.ErrCodeInvalidInput, "%s.%s has invalid type %s", id, a.Name, a.Type).WithType(id).WithAttribute(a.Name)
		}
		if a.Default != nil && !a.Type.Accepts(*a.Default) {
			return errs.New(errs.ErrCodeTypeMismatch, "default %s of %s.%s is not a %s", a.Default, id, a.Name, a.Type).
				WithType(id).WithAttribute(a.Name)
		}
		if from, ok := inheritedSpecs(def, a.Name, lookup); ok {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s redeclares %q inherited from %s; use an override", id, a.Name, from[0].owner).
				WithType(id).WithAttribute(a.Name)
		}
		if from, ok := inheritedAlias(def, a.Name, lookup); ok {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s declares attribute %q, which %s declares as an alias", id, a.Name, from).
				WithType(id).WithAttribute(a.Name)
		}
	}

	overridden := make(map[string]bool, len(def.overrides))
	for _, o := range def.overrides {
		if overridden[o.Attribute] {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s overrides %q twice", id, o.Attribute).WithType(id).WithAttribute(o.Attribute)
		}
		overridden[o.Attribute] = true
		if own[o.Attribute] {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s both declares and overrides %q", id, o.Attribute).WithType(id).WithAttribute(o.Attribute)
		}
		specs, ok := inheritedSpecs(def, o.Attribute, lookup)
		if !ok {
			return errs.New(errs.ErrCodeUndeclaredOverride, "%s overrides %q, which no ancestor declares", id, o.Attribute).
				WithType(id).WithAttribute(o.Attribute)
		}
		for _, s := range specs {
			if !s.spec.Type.Accepts(o.Value) {
				return errs.New(errs.ErrCodeTypeMismatch, "override %s of %s.%s is not a %s as declared on %s",
					o.Value, id, o.Attribute, s.spec.Type, s.owner).WithType(id).WithAttribute(o.Attribute)
			}
		}
	}

	aliased := make(map[string]bool, len(def.aliases))
	for _, a := range def.aliases {
		if err := errs.ValidateAttributeName(a.Name); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid alias on %s", id).WithType(id).WithAttribute(a.Name)
		}
		if a.Target == "" {
			return errs.New(errs.ErrCodeInvalidInput, "alias %q on %s has no target", a.Name, id).WithType(id).WithAttribute(a.Name)
		}
		key := string(a.Component) + "\x00" + a.Name
		if aliased[key] {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s declares alias %q twice", id, a.Name).WithType(id).WithAttribute(a.Name)
		}
		aliased[key] = true
		if a.IsComponentAlias() {
			continue
		}
		if own[a.Name] {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s declares %q as both attribute and alias", id, a.Name).
				WithType(id).WithAttribute(a.Name)
		}
		if from, ok := inheritedSpecs(def, a.Name, lookup); ok {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s declares alias %q, which %s declares as an attribute", id, a.Name, from[0].owner).
				WithType(id).WithAttribute(a.Name)
		}
	}
	return nil
}

type ownedSpec struct {
	owner tag.ID
	spec  tag.AttributeSpec
}

// ancestors walks the proper ancestors of def breadth-first, nearest first,
// stopping when visit returns false. Parent cycles are tolerated; Build
// reports them.
func ancestors(def *Definition, lookup lookupFunc, visit func(*Definition) bool) {
	seen := map[tag.ID]bool{def.id: true}
	queue := append([]tag.ID(nil), def.parents...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		p, ok := lookup(id)
		if !ok {
			continue
		}
		if !visit(p) {
			return
		}
		queue = append(queue, p.parents...)
	}
}

// inheritedSpecs returns every spec for name declared by a proper ancestor of
// def, nearest first.
func inheritedSpecs(def *Definition, name string, lookup lookupFunc) ([]ownedSpec, bool) {
	var out []ownedSpec
	ancestors(def, lookup, func(p *Definition) bool {
		if s, ok := p.Attribute(name); ok {
			out = append(out, ownedSpec{owner: p.id, spec: s})
		}
		return true
	})
	return out, len(out) > 0
}

// inheritedAlias returns the nearest proper ancestor of def declaring a
// non-component alias named name.
func inheritedAlias(def *Definition, name string, lookup lookupFunc) (tag.ID, bool) {
	var owner tag.ID
	ancestors(def, lookup, func(p *Definition) bool {
		if _, ok := p.Alias(name); ok {
			owner = p.id
			return false
		}
		return true
	})
	return owner, owner != ""
}
