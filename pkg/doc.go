// Package pkg provides the libraries behind tagmagic, a metadata tag
// hierarchy and attribute resolution engine.
//
// # Overview
//
// Tag types are declared with attributes, parents they extend, overrides of
// inherited defaults, aliases and, for composite types, the component types
// they stand for. The libraries turn those declarations into an immutable
// hierarchy and answer queries over it:
//
//  1. [tag] - Values, types, descriptors and instances
//  2. [definition] - Loading and validating descriptors into definitions
//  3. [hierarchy] - Building the graph, ancestor orders and alias maps
//  4. [resolve] - Effective attribute values and typed views
//  5. [query] - Matching observed tags against target types
//  6. [magic] - One engine bundling the three above
//
// Around the core sit the collaborators:
//
//   - [manifest]: TOML tag manifests
//   - [observe]: observation sources (registries, struct tags, tag text)
//   - [graph]: JSON export and re-import of built hierarchies
//   - [render]: DOT, SVG, PDF and PNG drawings
//   - [cache], [observability], [errors], [dag]: infrastructure
//
// # Data Flow
//
//	TOML manifest / descriptors
//	         ↓
//	    [definition] loader (per-type validation)
//	         ↓
//	    [hierarchy] build (cycles, ancestors, overrides, aliases)
//	         ↓
//	    [resolve] + [query] (values, views, matches)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/tagmagic/pkg/magic"
//	    "github.com/matzehuels/tagmagic/pkg/manifest"
//	    "github.com/matzehuels/tagmagic/pkg/tag"
//	)
//
//	m, _ := manifest.ReadFile("routes.toml")
//	descs, _ := m.Descriptors()
//	eng, _ := magic.New(descs)
//	v, _ := eng.EffectiveValue(tag.Of("Post"), "method") // POST
//
// [tag]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/tag
// [definition]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/definition
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/hierarchy
// [resolve]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/resolve
// [query]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/query
// [magic]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/magic
// [manifest]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/manifest
// [observe]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/observe
// [graph]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/errors
// [dag]: https://pkg.go.dev/github.com/matzehuels/tagmagic/pkg/dag
package pkg
