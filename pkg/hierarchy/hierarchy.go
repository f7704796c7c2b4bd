package hierarchy

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagmagic/pkg/dag"
	"github.com/matzehuels/tagmagic/pkg/definition"
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/observability"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Hierarchy is the built, immutable graph of tag types plus the closures
// derived from it.
type Hierarchy struct {
	graph *dag.DAG
	defs  map[tag.ID]*definition.Definition
	order []tag.ID

	ancestors   map[tag.ID][]tag.ID          // nearest first
	distance    map[tag.ID]map[tag.ID]int    // type -> ancestor -> extends-distance
	descendants map[tag.ID][]tag.ID          // in declaration order
	specs       map[tag.ID]map[string]tag.ID // type -> attribute -> declaring type
	attrs       map[tag.ID][]string          // every attribute in the chain, nearest first
	canonical   map[tag.ID]map[string]string // type -> alias name -> final target
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	logger *log.Logger
}

// WithLogger traces the build at debug level. A nil logger is silent.
func WithLogger(l *log.Logger) Option { return func(b *builder) { b.logger = l } }

func (b *builder) debug(msg string, kv ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, kv...)
	}
}

// Build assembles definitions into a validated hierarchy.
//
// Definitions are inserted in the order given, edges in parent declaration
// order. That order is the final tie-break for ancestor ordering.
func Build(defs []*definition.Definition, opts ...Option) (*Hierarchy, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	start := time.Now()
	observability.Build().OnBuildStart(len(defs))
	h, err := b.build(defs)
	observability.Build().OnBuildComplete(len(defs), time.Since(start), err)
	if err != nil {
		b.debug("hierarchy build failed", "error", err)
		return nil, err
	}
	b.debug("hierarchy built", "types", len(h.order), "edges", h.graph.EdgeCount(), "duration", time.Since(start))
	return h, nil
}

func (b *builder) build(defs []*definition.Definition) (*Hierarchy, error) {
	h := &Hierarchy{
		graph:       dag.New(),
		defs:        make(map[tag.ID]*definition.Definition, len(defs)),
		ancestors:   make(map[tag.ID][]tag.ID, len(defs)),
		distance:    make(map[tag.ID]map[tag.ID]int, len(defs)),
		descendants: make(map[tag.ID][]tag.ID, len(defs)),
		specs:       make(map[tag.ID]map[string]tag.ID, len(defs)),
		attrs:       make(map[tag.ID][]string, len(defs)),
		canonical:   make(map[tag.ID]map[string]string, len(defs)),
	}

	for _, d := range defs {
		if d == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "nil definition")
		}
		err := h.graph.AddNode(dag.Node{ID: string(d.ID()), Meta: dag.Metadata{"composite": d.IsComposite()}})
		if errors.Is(err, dag.ErrDuplicateNodeID) {
			return nil, errs.New(errs.ErrCodeDuplicateTagType, "tag type %s defined twice", d.ID()).WithType(string(d.ID()))
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "add %q", d.ID())
		}
		h.defs[d.ID()] = d
		h.order = append(h.order, d.ID())
	}

	for _, d := range defs {
		for _, p := range d.Parents() {
			if err := h.graph.AddEdge(dag.Edge{From: string(d.ID()), To: string(p)}); err != nil {
				return nil, errs.Wrap(errs.ErrCodeUnknownParent, err, "%s extends unknown tag type %s", d.ID(), p).
					WithType(string(d.ID()))
			}
		}
		for _, c := range d.Composes() {
			if _, ok := h.defs[c]; !ok {
				return nil, errs.New(errs.ErrCodeUnknownParent, "%s composes unknown tag type %s", d.ID(), c).
					WithType(string(d.ID()))
			}
		}
	}

	if cycle := h.graph.FindCycle(); cycle != nil {
		return nil, errs.New(errs.ErrCodeCyclicHierarchy, "cyclic hierarchy: %s", errs.FormatCycle(cycle)).
			WithType(cycle[0]).WithCycle(cycle)
	}

	for _, id := range h.order {
		h.computeClosure(id)
		b.debug("ancestors", "type", id, "ancestors", h.ancestors[id])
	}
	for _, id := range h.order {
		for _, a := range h.ancestors[id] {
			h.descendants[a] = append(h.descendants[a], id)
		}
	}
	for _, id := range h.order {
		h.indexSpecs(id)
	}

	// Checks run parents first so a conflict is reported where it arises.
	checked := h.parentsFirst()
	for _, id := range checked {
		if err := h.checkOverrides(id); err != nil {
			return nil, err
		}
	}
	for _, id := range checked {
		if err := h.resolveAliases(id); err != nil {
			return nil, err
		}
	}
	for _, id := range checked {
		if err := h.checkComponents(id); err != nil {
			return nil, err
		}
	}
	return h, nil
}
