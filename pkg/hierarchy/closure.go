package hierarchy

import (
	"slices"

	"github.com/matzehuels/tagmagic/pkg/dag"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// computeClosure orders the ancestors of id. Graph edges point from a type
// to its parents, so dag.Children are extends-parents and dag.Parents are
// direct subtypes.
//
// Kahn's algorithm over the ancestor sub-graph: an ancestor becomes ready
// once every subtype of it inside the sub-graph has been emitted. Among
// ready ancestors the nearest (BFS distance) goes first, then the first
// discovered.
func (h *Hierarchy) computeClosure(id tag.ID) {
	found := h.graph.Reachable(string(id))
	dist := h.graph.Distances(string(id))
	discovered := dag.PosMap(found)

	pending := make(map[string]int, len(found))
	for _, a := range found {
		for _, sub := range h.graph.Parents(a) {
			if _, in := discovered[sub]; in {
				pending[a]++
			}
		}
	}

	var ready []string
	for _, a := range found {
		if pending[a] == 0 {
			ready = append(ready, a)
		}
	}

	nearer := func(a, b string) bool {
		if dist[a] != dist[b] {
			return dist[a] < dist[b]
		}
		return discovered[a] < discovered[b]
	}

	ancestors := make([]tag.ID, 0, len(found))
	for len(ready) > 0 {
		best := 0
		for i := 1; i < len(ready); i++ {
			if nearer(ready[i], ready[best]) {
				best = i
			}
		}
		next := ready[best]
		ready = slices.Delete(ready, best, best+1)
		ancestors = append(ancestors, tag.ID(next))
		for _, p := range h.graph.Children(next) {
			pending[p]--
			if pending[p] == 0 {
				ready = append(ready, p)
			}
		}
	}

	distance := make(map[tag.ID]int, len(found))
	for _, a := range found {
		distance[tag.ID(a)] = dist[a]
	}
	h.ancestors[id] = ancestors
	h.distance[id] = distance
}

// indexSpecs records, for every attribute in the chain of id, the nearest
// type declaring its spec.
func (h *Hierarchy) indexSpecs(id tag.ID) {
	specs := make(map[string]tag.ID)
	var names []string
	for _, t := range h.chain(id) {
		for _, a := range h.defs[t].Attributes() {
			if _, ok := specs[a.Name]; ok {
				continue
			}
			specs[a.Name] = t
			names = append(names, a.Name)
		}
	}
	h.specs[id] = specs
	h.attrs[id] = names
}

// parentsFirst returns the types ordered so every type follows all of its
// ancestors. A type has strictly more ancestors than any of its ancestors,
// so a stable sort by ancestor count keeps declaration order otherwise.
func (h *Hierarchy) parentsFirst() []tag.ID {
	ids := slices.Clone(h.order)
	slices.SortStableFunc(ids, func(a, b tag.ID) int {
		return len(h.ancestors[a]) - len(h.ancestors[b])
	})
	return ids
}

// chain returns id followed by its ancestors, nearest first.
func (h *Hierarchy) chain(id tag.ID) []tag.ID {
	return append([]tag.ID{id}, h.ancestors[id]...)
}

// minimalProviders returns the ancestors of id satisfying provides that have
// no descendant satisfying provides in id's chain, in ancestor order.
func (h *Hierarchy) minimalProviders(id tag.ID, provides func(tag.ID) bool) []tag.ID {
	var providers []tag.ID
	for _, a := range h.ancestors[id] {
		if provides(a) {
			providers = append(providers, a)
		}
	}
	var minimal []tag.ID
	for _, p := range providers {
		shadowed := false
		for _, q := range providers {
			if p != q && h.IsAncestor(p, q) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			minimal = append(minimal, p)
		}
	}
	return minimal
}
