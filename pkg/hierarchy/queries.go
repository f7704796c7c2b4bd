package hierarchy

import (
	"slices"

	"github.com/matzehuels/tagmagic/pkg/dag"
	"github.com/matzehuels/tagmagic/pkg/definition"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Has reports whether t is a known tag type.
func (h *Hierarchy) Has(t tag.ID) bool {
	_, ok := h.defs[t]
	return ok
}

// Types returns every tag type in declaration order.
func (h *Hierarchy) Types() []tag.ID { return slices.Clone(h.order) }

// Len returns the number of tag types.
func (h *Hierarchy) Len() int { return len(h.order) }

// Definition returns the loaded definition of t.
func (h *Hierarchy) Definition(t tag.ID) (*definition.Definition, bool) {
	d, ok := h.defs[t]
	return d, ok
}

// Parents returns the direct parents of t in declaration order.
func (h *Hierarchy) Parents(t tag.ID) []tag.ID {
	return toIDs(h.graph.Children(string(t)))
}

// Children returns the direct subtypes of t in declaration order.
func (h *Hierarchy) Children(t tag.ID) []tag.ID {
	return toIDs(h.graph.Parents(string(t)))
}

// Roots returns the types without parents, in declaration order.
func (h *Hierarchy) Roots() []tag.ID {
	return toIDs(dag.NodeIDsOf(h.graph.Sinks()))
}

// AncestorsOf returns every proper ancestor of t, nearest first.
// The result never contains t and never contains duplicates.
func (h *Hierarchy) AncestorsOf(t tag.ID) []tag.ID {
	return slices.Clone(h.ancestors[t])
}

// Chain returns t followed by its ancestors: the order in which the
// resolver looks for a value source.
func (h *Hierarchy) Chain(t tag.ID) []tag.ID {
	if !h.Has(t) {
		return nil
	}
	return h.chain(t)
}

// DescendantsOf returns every proper descendant of t in declaration order.
func (h *Hierarchy) DescendantsOf(t tag.ID) []tag.ID {
	return slices.Clone(h.descendants[t])
}

// IsAncestor reports whether a is a proper ancestor of b.
func (h *Hierarchy) IsAncestor(a, b tag.ID) bool {
	_, ok := h.distance[b][a]
	return ok
}

// IsA reports whether t is target or one of its descendants.
func (h *Hierarchy) IsA(t, target tag.ID) bool {
	if t == target {
		return h.Has(t)
	}
	return h.IsAncestor(target, t)
}

// Distance returns the length of the shortest extends path from t up to
// ancestor, 0 when they are the same type. ok is false when ancestor is
// neither t nor one of its ancestors.
func (h *Hierarchy) Distance(t, ancestor tag.ID) (int, bool) {
	if t == ancestor {
		return 0, h.Has(t)
	}
	d, ok := h.distance[t][ancestor]
	return d, ok
}

// ResolveAlias returns the canonical attribute name that name reads on t.
// Names that are not aliases, and unknown types, return name unchanged.
func (h *Hierarchy) ResolveAlias(t tag.ID, name string) string {
	if c, ok := h.canonical[t][name]; ok {
		return c
	}
	return name
}

// AliasesFor returns the alias names on t that resolve to canonical, sorted.
func (h *Hierarchy) AliasesFor(t tag.ID, canonical string) []string {
	var names []string
	for n, c := range h.canonical[t] {
		if c == canonical {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// IsAlias reports whether name is an alias on t.
func (h *Hierarchy) IsAlias(t tag.ID, name string) bool {
	_, ok := h.canonical[t][name]
	return ok
}

// Spec returns the spec of attribute name as declared in the chain of t.
func (h *Hierarchy) Spec(t tag.ID, name string) (tag.AttributeSpec, bool) {
	owner, ok := h.specs[t][name]
	if !ok {
		return tag.AttributeSpec{}, false
	}
	return h.defs[owner].Attribute(name)
}

// Declarer returns the type whose spec declares attribute name for t.
func (h *Hierarchy) Declarer(t tag.ID, name string) (tag.ID, bool) {
	owner, ok := h.specs[t][name]
	return owner, ok
}

// Attributes returns the name of every attribute declared in the chain of
// t, nearest declaring type first, declaration order within a type.
func (h *Hierarchy) Attributes(t tag.ID) []string {
	return slices.Clone(h.attrs[t])
}

// Components returns the component types of composite t.
func (h *Hierarchy) Components(t tag.ID) []tag.ID {
	d, ok := h.defs[t]
	if !ok {
		return nil
	}
	return d.Composes()
}

func toIDs(ids []string) []tag.ID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]tag.ID, len(ids))
	for i, id := range ids {
		out[i] = tag.ID(id)
	}
	return out
}
