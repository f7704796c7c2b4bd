// Package hierarchy assembles loaded definitions into an immutable tag type
// hierarchy and answers ancestor, descendant and alias queries.
//
// # Building
//
// [Build] inserts every definition into a [dag.DAG] (edges child -> parent),
// rejects cycles with CYCLIC_HIERARCHY, computes each type's ancestor
// closure and validates overrides and aliases. Build is all-or-nothing: on
// error it returns nil and nothing is published.
//
//	defs, err := definition.NewLoader().LoadAll(descs)
//	if err != nil {
//	    return err
//	}
//	h, err := hierarchy.Build(defs, hierarchy.WithLogger(logger))
//
// # Ancestor order
//
// [Hierarchy.AncestorsOf] lists ancestors nearest first. The order is a
// topological order of the ancestor sub-graph, so a type always precedes its
// own ancestors; ties go to the shorter extends-distance from the queried
// type, then to discovery order (depth-first over parents in declaration
// order). This order decides "nearest wins" everywhere.
//
// # Overrides
//
// For a type T and attribute n, the providers are the ancestors declaring a
// spec or an override for n. A provider with a descendant provider in T's
// chain is shadowed. Two or more unshadowed providers with different values
// are rejected with AMBIGUOUS_OVERRIDE unless T provides n itself. Aliases
// are checked the same way on their targets.
//
// # Concurrency
//
// A Hierarchy is read-only once Build returns and is safe for any number of
// concurrent readers.
package hierarchy
