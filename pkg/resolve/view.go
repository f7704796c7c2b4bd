package resolve

import (
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// View is an instance seen as one of its ancestor types. Only attributes of
// the target type are visible, but their values come from the instance's
// own type, so descendant overrides apply.
type View struct {
	r      *Resolver
	inst   tag.Instance
	target tag.ID
}

// Cast views inst as target. It fails with NOT_AN_INSTANCE unless the
// instance's type is target or a descendant of it.
func (r *Resolver) Cast(inst tag.Instance, target tag.ID) (View, error) {
	if !r.h.Has(inst.Type) {
		return View{}, unknownType(inst.Type)
	}
	if !r.h.IsA(inst.Type, target) {
		return View{}, errs.New(errs.ErrCodeNotAnInstance, "%s is not a %s", inst.Type, target).WithType(string(inst.Type))
	}
	return View{r: r, inst: inst, target: target}, nil
}

// Type returns the type the instance is viewed as.
func (v View) Type() tag.ID { return v.target }

// Instance returns the viewed instance.
func (v View) Instance() tag.Instance { return v.inst }

// Get resolves name as declared by the view's type.
func (v View) Get(name string) (tag.Value, error) {
	canonical := v.r.h.ResolveAlias(v.target, name)
	if _, ok := v.r.h.Spec(v.target, canonical); !ok {
		return tag.Value{}, errs.New(errs.ErrCodeUnknownAttribute, "%s has no attribute %q", v.target, name).
			WithType(string(v.target)).WithAttribute(name)
	}
	return v.r.value(v.inst, canonical, name)
}

// Values resolves every attribute of the view's type.
func (v View) Values() (map[string]tag.Value, error) {
	names := v.r.h.Attributes(v.target)
	out := make(map[string]tag.Value, len(names))
	for _, name := range names {
		val, err := v.r.value(v.inst, name, name)
		if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}
