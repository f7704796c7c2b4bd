package query

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/observe"
	"github.com/matzehuels/tagmagic/pkg/resolve"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Facade answers queries over observed tag instances.
type Facade struct {
	h *hierarchy.Hierarchy
	r *resolve.Resolver
}

// New creates a facade over r's hierarchy.
func New(r *resolve.Resolver) *Facade {
	return &Facade{h: r.Hierarchy(), r: r}
}

// HasTag reports whether some observed instance is-a target: its type is
// target or has target among its ancestors.
func (f *Facade) HasTag(observed []tag.Instance, target tag.ID) bool {
	for _, inst := range f.Expand(observed) {
		if f.h.IsA(inst.Type, target) {
			return true
		}
	}
	return false
}

// NearestMatch returns the observed instance whose type is closest to
// target. Ties go to the instance supplied first.
func (f *Facade) NearestMatch(observed []tag.Instance, target tag.ID) (tag.Instance, bool) {
	var (
		best  tag.Instance
		bestD = -1
	)
	for _, inst := range f.Expand(observed) {
		d, ok := f.h.Distance(inst.Type, target)
		if !ok {
			continue
		}
		if bestD < 0 || d < bestD {
			best, bestD = inst, d
		}
	}
	return best, bestD >= 0
}

// All returns every observed instance that is-a target, in supplied order.
func (f *Facade) All(observed []tag.Instance, target tag.ID) []tag.Instance {
	var out []tag.Instance
	for _, inst := range f.Expand(observed) {
		if f.h.IsA(inst.Type, target) {
			out = append(out, inst)
		}
	}
	return out
}

// One returns the single observed instance that is-a target. ok is false
// when there is none; more than one match fails with AMBIGUOUS_MATCH.
func (f *Facade) One(observed []tag.Instance, target tag.ID) (inst tag.Instance, ok bool, err error) {
	matches := f.All(observed, target)
	switch len(matches) {
	case 0:
		return tag.Instance{}, false, nil
	case 1:
		return matches[0], true, nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.String()
	}
	return tag.Instance{}, false, errs.New(errs.ErrCodeAmbiguousMatch, "expected at most one %s, found %d: %s",
		target, len(matches), strings.Join(names, ", ")).WithType(string(target))
}

// InstanceOf reports whether inst is-a target.
func (f *Facade) InstanceOf(inst tag.Instance, target tag.ID) bool {
	return f.h.IsA(inst.Type, target)
}

// On returns the tags src observes on element.
func (f *Facade) On(src observe.Source, element any) ([]tag.Instance, error) {
	observed, err := src.ObservedTagsOn(element)
	if err != nil {
		return nil, fmt.Errorf("observe %v: %w", element, err)
	}
	return observed, nil
}

// Expand replaces composite instances by their components.
func (f *Facade) Expand(observed []tag.Instance) []tag.Instance {
	out := make([]tag.Instance, 0, len(observed))
	for _, inst := range observed {
		components := f.h.Components(inst.Type)
		if len(components) == 0 {
			out = append(out, inst)
			continue
		}
		if len(f.h.Parents(inst.Type)) > 0 {
			out = append(out, inst)
		}
		def, _ := f.h.Definition(inst.Type)
		for _, c := range components {
			out = append(out, f.component(inst, c, def.ComponentAliases(c)))
		}
	}
	return out
}

// component builds the synthetic instance of c standing in for composite
// inst. An alias whose value cannot be resolved is left unset, so the
// component's own default applies.
func (f *Facade) component(inst tag.Instance, c tag.ID, aliases []tag.Alias) tag.Instance {
	values := make(map[string]tag.Value, len(aliases))
	for _, a := range aliases {
		v, err := f.r.EffectiveValue(inst, a.Name)
		if err != nil {
			continue
		}
		values[a.Target] = v
	}
	return tag.Instance{Type: c, Values: values}
}
