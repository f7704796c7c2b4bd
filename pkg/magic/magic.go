// Package magic bundles a hierarchy, a resolver and a query facade into one
// Engine.
//
// An Engine is an ordinary value built once and passed to whoever needs
// it. There is no process-wide instance: tests and programs construct as
// many independent engines as they like.
//
//	eng, err := magic.New(descriptors, magic.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err) // definition and hierarchy errors are configuration defects
//	}
//	v, err := eng.EffectiveValue(tag.Of("Post"), "method")
package magic

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagmagic/pkg/cache"
	"github.com/matzehuels/tagmagic/pkg/definition"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/observe"
	"github.com/matzehuels/tagmagic/pkg/query"
	"github.com/matzehuels/tagmagic/pkg/resolve"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Engine answers every query over one built hierarchy. It is safe for
// concurrent use.
type Engine struct {
	h *hierarchy.Hierarchy
	r *resolve.Resolver
	f *query.Facade
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *log.Logger
	cache  cache.Cache[resolve.Key, resolve.Source]
}

// WithLogger traces the hierarchy build at debug level.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithCache replaces the resolver's default unbounded cache.
func WithCache(c cache.Cache[resolve.Key, resolve.Source]) Option {
	return func(o *options) { o.cache = c }
}

// New loads descs in any order, builds the hierarchy and wires a resolver
// and a facade over it.
func New(descs []tag.Descriptor, opts ...Option) (*Engine, error) {
	defs, err := definition.NewLoader().LoadAll(descs)
	if err != nil {
		return nil, err
	}
	return FromDefinitions(defs, opts...)
}

// FromDefinitions builds an engine from definitions loaded elsewhere.
func FromDefinitions(defs []*definition.Definition, opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	h, err := hierarchy.Build(defs, hierarchy.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	r := resolve.New(h, resolve.WithCache(o.cache))
	return &Engine{h: h, r: r, f: query.New(r)}, nil
}

// Hierarchy returns the built hierarchy.
func (e *Engine) Hierarchy() *hierarchy.Hierarchy { return e.h }

// Resolver returns the attribute resolver.
func (e *Engine) Resolver() *resolve.Resolver { return e.r }

// Facade returns the query facade.
func (e *Engine) Facade() *query.Facade { return e.f }

// EffectiveValue returns the value attribute name takes on inst.
func (e *Engine) EffectiveValue(inst tag.Instance, name string) (tag.Value, error) {
	return e.r.EffectiveValue(inst, name)
}

// Values resolves every attribute of inst.
func (e *Engine) Values(inst tag.Instance) (map[string]tag.Value, error) {
	return e.r.Values(inst)
}

// Cast views inst as its ancestor type target.
func (e *Engine) Cast(inst tag.Instance, target tag.ID) (resolve.View, error) {
	return e.r.Cast(inst, target)
}

// HasTag reports whether some observed instance is-a target.
func (e *Engine) HasTag(observed []tag.Instance, target tag.ID) bool {
	return e.f.HasTag(observed, target)
}

// NearestMatch returns the observed instance closest to target.
func (e *Engine) NearestMatch(observed []tag.Instance, target tag.ID) (tag.Instance, bool) {
	return e.f.NearestMatch(observed, target)
}

// All returns every observed instance that is-a target.
func (e *Engine) All(observed []tag.Instance, target tag.ID) []tag.Instance {
	return e.f.All(observed, target)
}

// One returns the single observed instance that is-a target.
func (e *Engine) One(observed []tag.Instance, target tag.ID) (tag.Instance, bool, error) {
	return e.f.One(observed, target)
}

// InstanceOf reports whether inst is-a target.
func (e *Engine) InstanceOf(inst tag.Instance, target tag.ID) bool {
	return e.f.InstanceOf(inst, target)
}

// IsAncestor reports whether a is a proper ancestor of b.
func (e *Engine) IsAncestor(a, b tag.ID) bool { return e.h.IsAncestor(a, b) }

// AncestorsOf returns the ancestors of t, nearest first.
func (e *Engine) AncestorsOf(t tag.ID) []tag.ID { return e.h.AncestorsOf(t) }

// On returns the tags src observes on element.
func (e *Engine) On(src observe.Source, element any) ([]tag.Instance, error) {
	return e.f.On(src, element)
}

// Parse reads instances in the textual tag syntax.
func (e *Engine) Parse(text string) ([]tag.Instance, error) {
	return observe.Parse(e.h, text)
}

// StructTags returns a struct-tag source typing values against the
// engine's hierarchy.
func (e *Engine) StructTags(opts ...observe.StructTagsOption) *observe.StructTags {
	return observe.NewStructTags(e.h, opts...)
}
