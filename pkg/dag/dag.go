package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the same
	// ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Use [DAG.FindCycle] to obtain the offending path. Cycles are detected
	// using depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// Metadata maps are never nil - they are automatically initialized to empty
// maps when needed.
type Metadata map[string]any

// Node is a vertex of the graph.
//
// The zero value is not usable - ID must be set before adding to a DAG.
type Node struct {
	ID   string   // Unique identifier (also used as display label)
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From string   // Source node ID
	To   string   // Target node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed graph that is expected to be acyclic once validated.
//
// Unlike a plain adjacency map, every traversal order is deterministic:
// nodes are kept in insertion order and each adjacency list in edge
// insertion order. Callers rely on this for reproducible tie-breaking.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent mutation; concurrent reads of a DAG that
// is no longer modified are safe.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string][]string // nodeID -> source IDs
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist, or
// ErrUnknownTargetNode if the To node doesn't exist. The edge's Meta
// field is automatically initialized to an empty map if nil.
//
// Adding an edge that already exists is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (d *DAG) NodeIDs() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in the graph, in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes this node has edges to, in edge
// insertion order. Returns nil if the node has none or doesn't exist.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node, in edge
// insertion order. The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, d.nodes[id])
		}
	}
	return sinks
}

// Validate returns ErrGraphHasCycle if the graph contains a directed cycle.
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	if d.FindCycle() != nil {
		return ErrGraphHasCycle
	}
	return nil
}

// FindCycle returns the first directed cycle found, or nil if the graph is
// acyclic. The path starts and ends with the same node ID ("A", "B", "A").
// Nodes are explored in insertion order and children in edge order, so the
// reported cycle is deterministic.
func (d *DAG) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range d.order {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

// Reachable returns every node reachable from id along outgoing edges,
// excluding id itself, in depth-first preorder with children visited in
// edge order. The traversal tolerates cycles.
func (d *DAG) Reachable(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	var walk func(string)
	walk = func(n string) {
		for _, c := range d.outgoing[n] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// Distances returns the length of the shortest outgoing path from id to
// every reachable node, with id itself at distance 0.
func (d *DAG) Distances(id string) map[string]int {
	dist := map[string]int{id: 0}
	queue := []string{id}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range d.outgoing[n] {
			if _, ok := dist[c]; !ok {
				dist[c] = dist[n] + 1
				queue = append(queue, c)
			}
		}
	}
	return dist
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDsOf returns the IDs of nodes, preserving order.
func NodeIDsOf(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
