// Package definition turns tag-type descriptors into validated Definition
// nodes.
//
// A [Definition] is the loader's output: the descriptor's attribute specs,
// parents, overrides, aliases and components, checked against the
// definitions already loaded. Definitions are values; the loader never
// builds or mutates a hierarchy. Hand the result to hierarchy.Build.
//
// # Loading order
//
// [Loader.Load] requires every parent to be loaded first. [Loader.LoadAll]
// accepts a batch in any order and resolves forward references in a second
// pass. A failed LoadAll registers nothing.
//
//	l := definition.NewLoader()
//	defs, err := l.LoadAll(descriptors)
//	if errors.IsDefinitionError(err) {
//	    // fatal configuration defect
//	}
//
// Cycles through parents are not a loader concern. They pass LoadAll and
// are rejected by the hierarchy builder.
package definition
