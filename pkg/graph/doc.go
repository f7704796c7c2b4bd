// Package graph provides the JSON wire format for tag hierarchies.
//
// A built [hierarchy.Hierarchy] exports to a node-link document: one node
// per tag type carrying its declared attributes, overrides and aliases, and
// one edge per extends or composes relation. The document reads back as
// descriptors, so an export can be reloaded without its original manifest.
//
//	{
//	  "nodes": [
//	    {"id": "Route", "attributes": [{"name": "method", "type": "enum", "enum": ["GET", "POST"], "default": "GET"}]},
//	    {"id": "Post", "overrides": [{"attribute": "method", "type": "enum", "enum": ["GET", "POST"], "value": "POST"}]}
//	  ],
//	  "edges": [{"from": "Post", "to": "Route", "kind": "extends"}]
//	}
//
// Nodes also list their computed ancestors, nearest first. Readers ignore
// that field; it is recomputed when the hierarchy is rebuilt.
//
// # Usage
//
//	data, err := graph.MarshalHierarchy(h)
//	descs, err := graph.ReadDescriptors(bytes.NewReader(data))
//	eng, err := magic.New(descs)
//
// [hierarchy.Hierarchy]: github.com/matzehuels/tagmagic/pkg/hierarchy.Hierarchy
package graph
