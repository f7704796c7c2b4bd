// Package dag provides a deterministic directed graph used to model tag type
// hierarchies.
//
// # Overview
//
// Tag types form a virtual subtype graph: an edge From -> To means "From
// extends To". This package stores that graph as an arena of nodes addressed
// by string IDs, with every cross-reference expressed as an ID lookup. No
// node owns another, so shared ancestors (diamonds) need no special care.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and edges can only connect
// existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "Get"})
//	g.AddNode(dag.Node{ID: "Route"})
//	g.AddEdge(dag.Edge{From: "Get", To: "Route"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.Reachable] and [DAG.Distances]. Use [DAG.Validate] or [DAG.FindCycle]
// to verify that the graph is acyclic.
//
// # Ordering
//
// Every traversal is deterministic: nodes keep insertion order and adjacency
// lists keep edge insertion order. Hierarchy resolution depends on this to
// break ties between ancestors the same way on every run.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Once a graph is no
// longer modified, any number of goroutines may read it.
package dag
