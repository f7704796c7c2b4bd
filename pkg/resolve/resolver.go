package resolve

import (
	"time"

	"github.com/matzehuels/tagmagic/pkg/cache"
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/observability"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Key identifies a cached resolution: a tag type and a canonical attribute.
type Key struct {
	Type      tag.ID
	Attribute string
}

// Source is the type-level outcome of resolving an attribute: which type
// supplies the value, and the value if there is one.
type Source struct {
	// Declared is false when no type in the chain declares the attribute.
	Declared bool
	// Spec is the declaring spec.
	Spec tag.AttributeSpec
	// Owner is the nearest type providing a spec or an override.
	Owner tag.ID
	// Value is Owner's value. It is meaningful only when HasValue is set.
	Value    tag.Value
	HasValue bool
}

// Resolver resolves attribute values against one hierarchy.
type Resolver struct {
	h     *hierarchy.Hierarchy
	cache cache.Cache[Key, Source]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache replaces the default unbounded cache. A nil cache is ignored.
func WithCache(c cache.Cache[Key, Source]) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// New creates a resolver for h.
func New(h *hierarchy.Hierarchy, opts ...Option) *Resolver {
	r := &Resolver{h: h, cache: cache.NewMap[Key, Source]()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hierarchy returns the hierarchy the resolver reads.
func (r *Resolver) Hierarchy() *hierarchy.Hierarchy { return r.h }

// EffectiveValue returns the value attribute name takes on inst.
//
// Errors: UNKNOWN_TAG_TYPE for an instance of an unknown type,
// UNKNOWN_ATTRIBUTE when no type in the chain declares the attribute,
// MISSING_REQUIRED_ATTRIBUTE when it is declared without any value and the
// instance sets none, INVALID_VALUE when the instance sets a value the
// declared type does not accept.
func (r *Resolver) EffectiveValue(inst tag.Instance, name string) (tag.Value, error) {
	start := time.Now()
	v, err := r.effective(inst, name)
	observability.Resolve().OnResolve(string(inst.Type), name, time.Since(start), err)
	return v, err
}

func (r *Resolver) effective(inst tag.Instance, name string) (tag.Value, error) {
	if !r.h.Has(inst.Type) {
		return tag.Value{}, unknownType(inst.Type)
	}
	return r.value(inst, r.h.ResolveAlias(inst.Type, name), name)
}

// value resolves an already canonical attribute. requested is only used in
// error messages.
func (r *Resolver) value(inst tag.Instance, canonical, requested string) (tag.Value, error) {
	src := r.source(inst.Type, canonical)
	if !src.Declared {
		return tag.Value{}, errs.New(errs.ErrCodeUnknownAttribute, "%s has no attribute %q", inst.Type, requested).
			WithType(string(inst.Type)).WithAttribute(requested)
	}
	if v, key, ok := r.explicit(inst, canonical); ok {
		if !src.Spec.Type.Accepts(v) {
			return tag.Value{}, errs.New(errs.ErrCodeInvalidValue, "%s.%s = %s is not a %s", inst.Type, key, v, src.Spec.Type).
				WithType(string(inst.Type)).WithAttribute(key)
		}
		return v, nil
	}
	if !src.HasValue {
		return tag.Value{}, errs.New(errs.ErrCodeMissingRequiredAttribute, "%s requires attribute %q", inst.Type, canonical).
			WithType(string(inst.Type)).WithAttribute(canonical)
	}
	return src.Value, nil
}

// explicit returns the value inst sets for canonical, directly or under one
// of its aliases.
func (r *Resolver) explicit(inst tag.Instance, canonical string) (tag.Value, string, bool) {
	if len(inst.Values) == 0 {
		return tag.Value{}, "", false
	}
	if v, ok := inst.Values[canonical]; ok {
		return v, canonical, true
	}
	for _, alias := range r.h.AliasesFor(inst.Type, canonical) {
		if v, ok := inst.Values[alias]; ok {
			return v, alias, true
		}
	}
	return tag.Value{}, "", false
}

// source returns the cached type-level resolution of canonical on t,
// computing it on a miss. Concurrent misses compute the same Source and
// store it idempotently.
func (r *Resolver) source(t tag.ID, canonical string) Source {
	key := Key{Type: t, Attribute: canonical}
	if src, ok := r.cache.Load(key); ok {
		observability.Cache().OnCacheHit("source")
		return src
	}
	observability.Cache().OnCacheMiss("source")

	src := r.compute(t, canonical)
	r.cache.Store(key, src)
	observability.Cache().OnCacheSet("source")
	return src
}

func (r *Resolver) compute(t tag.ID, canonical string) Source {
	spec, ok := r.h.Spec(t, canonical)
	if !ok {
		return Source{}
	}
	src := Source{Declared: true, Spec: spec}
	for _, node := range r.h.Chain(t) {
		def, _ := r.h.Definition(node)
		if v, defined, provides := def.ValueOf(canonical); provides {
			src.Owner = node
			src.Value = v
			src.HasValue = defined
			break
		}
	}
	return src
}

// Values resolves every attribute declared in the chain of inst's type.
// The instance is checked first, so a misspelled key fails.
func (r *Resolver) Values(inst tag.Instance) (map[string]tag.Value, error) {
	if err := r.Check(inst); err != nil {
		return nil, err
	}
	names := r.h.Attributes(inst.Type)
	out := make(map[string]tag.Value, len(names))
	for _, name := range names {
		v, err := r.value(inst, name, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Check validates the explicit values of inst: every key must name a
// declared attribute, directly or through an alias, and every value must
// be accepted by the declared type.
func (r *Resolver) Check(inst tag.Instance) error {
	if !r.h.Has(inst.Type) {
		return unknownType(inst.Type)
	}
	for _, key := range inst.Keys() {
		canonical := r.h.ResolveAlias(inst.Type, key)
		spec, ok := r.h.Spec(inst.Type, canonical)
		if !ok {
			return errs.New(errs.ErrCodeUnknownAttribute, "%s has no attribute %q", inst.Type, key).
				WithType(string(inst.Type)).WithAttribute(key)
		}
		if v := inst.Values[key]; !spec.Type.Accepts(v) {
			return errs.New(errs.ErrCodeInvalidValue, "%s.%s = %s is not a %s", inst.Type, key, v, spec.Type).
				WithType(string(inst.Type)).WithAttribute(key)
		}
	}
	return nil
}

func unknownType(t tag.ID) error {
	return errs.New(errs.ErrCodeUnknownTagType, "unknown tag type %s", t).WithType(string(t))
}
