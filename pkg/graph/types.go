package graph

import (
	"slices"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Edge kinds.
const (
	KindExtends  = "extends"
	KindComposes = "composes"
)

// =============================================================================
// Graph - Hierarchy Serialization
// =============================================================================

// Graph is the serialization format for tag hierarchies.
//
// Nodes are in declaration order, edges in declaration order per node with
// extends edges before composes edges. Reading a graph back and rebuilding
// it yields the same ancestor orders.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one tag type.
type Node struct {
	ID         string      `json:"id"`
	Attributes []Attribute `json:"attributes,omitempty"`
	Overrides  []Override  `json:"overrides,omitempty"`
	Aliases    []Alias     `json:"aliases,omitempty"`
	Ancestors  []string    `json:"ancestors,omitempty"` // informational, nearest first
}

// Attribute is a declared attribute. A nil Default means required.
type Attribute struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Enum    []string `json:"enum,omitempty"`
	Default any      `json:"default,omitempty"`
}

// Override replaces an inherited default. Type and Enum repeat the
// inherited declaration so the value can be decoded on its own.
type Override struct {
	Attribute string   `json:"attribute"`
	Type      string   `json:"type"`
	Enum      []string `json:"enum,omitempty"`
	Value     any      `json:"value"`
}

// Alias redirects reads of Name to Target, on Component when set.
type Alias struct {
	Name      string `json:"name"`
	Target    string `json:"target"`
	Component string `json:"component,omitempty"`
}

// Edge is an extends or composes relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// =============================================================================
// Conversion
// =============================================================================

// FromHierarchy converts a built hierarchy to its serialization form.
func FromHierarchy(h *hierarchy.Hierarchy) Graph {
	var g Graph
	for _, t := range h.Types() {
		def, _ := h.Definition(t)
		n := Node{ID: string(t), Ancestors: ids(h.AncestorsOf(t))}
		for _, a := range def.Attributes() {
			attr := Attribute{Name: a.Name, Type: a.Type.String(), Enum: a.Type.Enum}
			if a.HasDefault() {
				attr.Default = a.Default.Interface()
			}
			n.Attributes = append(n.Attributes, attr)
		}
		for _, o := range def.Overrides() {
			spec, _ := h.Spec(t, o.Attribute)
			n.Overrides = append(n.Overrides, Override{
				Attribute: o.Attribute,
				Type:      spec.Type.String(),
				Enum:      spec.Type.Enum,
				Value:     o.Value.Interface(),
			})
		}
		for _, a := range def.Aliases() {
			n.Aliases = append(n.Aliases, Alias{Name: a.Name, Target: a.Target, Component: string(a.Component)})
		}
		g.Nodes = append(g.Nodes, n)

		for _, p := range h.Parents(t) {
			g.Edges = append(g.Edges, Edge{From: string(t), To: string(p), Kind: KindExtends})
		}
		for _, c := range h.Components(t) {
			g.Edges = append(g.Edges, Edge{From: string(t), To: string(c), Kind: KindComposes})
		}
	}
	return g
}

// Descriptors converts g back into tag descriptors, typing every value
// against its declared type.
func (g Graph) Descriptors() ([]tag.Descriptor, error) {
	pos := make(map[string]int, len(g.Nodes))
	descs := make([]tag.Descriptor, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := pos[n.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "node %s listed twice", n.ID).WithType(n.ID)
		}
		pos[n.ID] = i
		d, err := n.descriptor()
		if err != nil {
			return nil, err
		}
		descs[i] = d
	}

	for _, e := range g.Edges {
		i, ok := pos[e.From]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "edge from unknown node %s", e.From)
		}
		switch e.Kind {
		case KindExtends:
			descs[i].Extends = append(descs[i].Extends, tag.ID(e.To))
		case KindComposes:
			descs[i].Composes = append(descs[i].Composes, tag.ID(e.To))
		default:
			return nil, errs.New(errs.ErrCodeInvalidManifest, "edge %s -> %s has unknown kind %q", e.From, e.To, e.Kind)
		}
	}
	return descs, nil
}

func (n Node) descriptor() (tag.Descriptor, error) {
	d := tag.Descriptor{Name: tag.ID(n.ID)}
	for _, a := range n.Attributes {
		t, err := parseType(a.Type, a.Enum)
		if err != nil {
			return tag.Descriptor{}, invalid(err, n.ID, a.Name)
		}
		spec := tag.Required(a.Name, t)
		if a.Default != nil {
			v, err := tag.Coerce(a.Default, t)
			if err != nil {
				return tag.Descriptor{}, invalid(err, n.ID, a.Name)
			}
			spec = tag.Optional(a.Name, t, v)
		}
		d.Attributes = append(d.Attributes, spec)
	}
	for _, o := range n.Overrides {
		t, err := parseType(o.Type, o.Enum)
		if err != nil {
			return tag.Descriptor{}, invalid(err, n.ID, o.Attribute)
		}
		v, err := tag.Coerce(o.Value, t)
		if err != nil {
			return tag.Descriptor{}, invalid(err, n.ID, o.Attribute)
		}
		d.Overrides = append(d.Overrides, tag.Override{Attribute: o.Attribute, Value: v})
	}
	for _, a := range n.Aliases {
		d.Aliases = append(d.Aliases, tag.Alias{Name: a.Name, Target: a.Target, Component: tag.ID(a.Component)})
	}
	return d, nil
}

func parseType(name string, enum []string) (tag.Type, error) {
	t, err := tag.ParseType(name)
	if err != nil {
		return tag.Type{}, err
	}
	t.Enum = slices.Clone(enum)
	return t, nil
}

func invalid(err error, node, attr string) error {
	return errs.Wrap(errs.ErrCodeInvalidManifest, err, "node %s attribute %s", node, attr).
		WithType(node).WithAttribute(attr)
}

func ids(ts []tag.ID) []string {
	if len(ts) == 0 {
		return nil
	}
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
