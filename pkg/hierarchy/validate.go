package hierarchy

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// checkOverrides rejects attributes that id inherits with different values
// from incomparable ancestors.
func (h *Hierarchy) checkOverrides(id tag.ID) error {
	self := h.defs[id]
	for _, name := range h.providedNames(id) {
		if self.Provides(name) {
			continue
		}
		minimal := h.minimalProviders(id, func(t tag.ID) bool { return h.defs[t].Provides(name) })
		if len(minimal) < 2 {
			continue
		}
		first := h.defs[minimal[0]]
		v0, defined0, _ := first.ValueOf(name)
		for _, m := range minimal[1:] {
			v, defined, _ := h.defs[m].ValueOf(name)
			if defined != defined0 || (defined && !v.Equal(v0)) {
				return ambiguous(id, name, "value", minimal)
			}
		}

		declaring := h.minimalProviders(id, func(t tag.ID) bool {
			_, ok := h.defs[t].Attribute(name)
			return ok
		})
		for _, d := range declaring[min(1, len(declaring)):] {
			a0, _ := h.defs[declaring[0]].Attribute(name)
			a, _ := h.defs[d].Attribute(name)
			if !a.Type.Equal(a0.Type) {
				return ambiguous(id, name, "type", declaring)
			}
		}
	}
	return nil
}

// providedNames lists every attribute name given a spec or an override in
// the chain of id, nearest first.
func (h *Hierarchy) providedNames(id tag.ID) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, t := range h.chain(id) {
		d := h.defs[t]
		for _, a := range d.Attributes() {
			add(a.Name)
		}
		for _, o := range d.Overrides() {
			add(o.Attribute)
		}
	}
	return names
}

// resolveAliases computes the effective alias map of id and follows every
// chain to its final attribute.
func (h *Hierarchy) resolveAliases(id tag.ID) error {
	self := h.defs[id]
	direct := make(map[string]string)
	for _, t := range h.chain(id) {
		for _, a := range h.defs[t].Aliases() {
			if a.IsComponentAlias() {
				continue
			}
			if _, ok := direct[a.Name]; !ok {
				direct[a.Name] = a.Target
			}
		}
	}

	names := make([]string, 0, len(direct))
	for n := range direct {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, name := range names {
		if owner, ok := h.specs[id][name]; ok {
			return errs.New(errs.ErrCodeDuplicateAttribute, "%s inherits %q both as an alias and as an attribute of %s", id, name, owner).
				WithType(string(id)).WithAttribute(name)
		}
	}

	for _, name := range names {
		if _, own := self.Alias(name); own {
			continue
		}
		minimal := h.minimalProviders(id, func(t tag.ID) bool {
			_, ok := h.defs[t].Alias(name)
			return ok
		})
		for _, m := range minimal[min(1, len(minimal)):] {
			a0, _ := h.defs[minimal[0]].Alias(name)
			a, _ := h.defs[m].Alias(name)
			if a.Target != a0.Target {
				return ambiguous(id, name, "alias target", minimal)
			}
		}
	}

	canonical := make(map[string]string, len(direct))
	for _, name := range names {
		path := []string{name}
		cur := name
		for {
			next, ok := direct[cur]
			if !ok {
				break
			}
			if slices.Contains(path, next) {
				cycle := append(path, next)
				return errs.New(errs.ErrCodeCyclicAlias, "cyclic alias on %s: %s", id, errs.FormatCycle(cycle)).
					WithType(string(id)).WithAttribute(name).WithCycle(cycle)
			}
			path = append(path, next)
			cur = next
		}
		if _, ok := h.specs[id][cur]; !ok {
			return errs.New(errs.ErrCodeDanglingAlias, "alias %q on %s resolves to %q, which %s does not declare",
				name, id, cur, id).WithType(string(id)).WithAttribute(name)
		}
		canonical[name] = cur
	}
	h.canonical[id] = canonical
	return nil
}

// checkComponents validates the component aliases of a composite.
func (h *Hierarchy) checkComponents(id tag.ID) error {
	d := h.defs[id]
	composes := d.Composes()
	for _, a := range d.Aliases() {
		if !a.IsComponentAlias() {
			continue
		}
		if !slices.Contains(composes, a.Component) {
			return errs.New(errs.ErrCodeDanglingAlias, "alias %q on %s targets %s, which is not one of its components",
				a.Name, id, a.Component).WithType(string(id)).WithAttribute(a.Name)
		}
		own, ok := h.Spec(id, h.ResolveAlias(id, a.Name))
		if !ok {
			return errs.New(errs.ErrCodeDanglingAlias, "component alias %q is not an attribute of %s", a.Name, id).
				WithType(string(id)).WithAttribute(a.Name)
		}
		target, ok := h.Spec(a.Component, h.ResolveAlias(a.Component, a.Target))
		if !ok {
			return errs.New(errs.ErrCodeDanglingAlias, "alias %q on %s targets %s.%s, which is not declared",
				a.Name, id, a.Component, a.Target).WithType(string(id)).WithAttribute(a.Name)
		}
		if own.Type.Kind != target.Type.Kind || own.Type.Elem != target.Type.Elem {
			return errs.New(errs.ErrCodeTypeMismatch, "alias %q on %s is a %s but %s.%s is a %s",
				a.Name, id, own.Type, a.Component, a.Target, target.Type).WithType(string(id)).WithAttribute(a.Name)
		}
	}
	return nil
}

func ambiguous(id tag.ID, name, what string, providers []tag.ID) error {
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = string(p)
	}
	return errs.New(errs.ErrCodeAmbiguousOverride, "%s inherits conflicting %s for %q from %s; declare an override on %s",
		id, what, name, strings.Join(ids, " and "), id).WithType(string(id)).WithAttribute(name)
}
