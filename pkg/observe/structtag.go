package observe

import (
	"reflect"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// DefaultKey is the struct tag key StructTags reads.
const DefaultKey = "tag"

// StructTags discovers tags from Go struct tags.
//
// Elements may be a reflect.StructField, which yields that field's tags,
// or a struct type, struct value or pointer to struct, which yields the
// tags on its blank ("_") fields.
type StructTags struct {
	h   *hierarchy.Hierarchy
	key string
}

// StructTagsOption configures a StructTags source.
type StructTagsOption func(*StructTags)

// WithKey reads key instead of DefaultKey.
func WithKey(key string) StructTagsOption { return func(s *StructTags) { s.key = key } }

// NewStructTags creates a struct-tag source typing values against h.
func NewStructTags(h *hierarchy.Hierarchy, opts ...StructTagsOption) *StructTags {
	s := &StructTags{h: h, key: DefaultKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObservedTagsOn returns the tags declared on element.
func (s *StructTags) ObservedTagsOn(element any) ([]tag.Instance, error) {
	switch e := element.(type) {
	case reflect.StructField:
		return s.field(e)
	case *reflect.StructField:
		return s.field(*e)
	case reflect.Type:
		return s.typ(e)
	}
	return s.typ(reflect.TypeOf(element))
}

// Field returns the tags declared on the named field of struct v.
func (s *StructTags) Field(v any, name string) ([]tag.Instance, error) {
	t, err := structType(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	f, ok := t.FieldByName(name)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s has no field %s", t, name)
	}
	return s.field(f)
}

// Fields returns the tags of every tagged named field of struct v, keyed by
// field name.
func (s *StructTags) Fields(v any) (map[string][]tag.Instance, error) {
	t, err := structType(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	out := make(map[string][]tag.Instance)
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" {
			continue
		}
		tags, err := s.field(f)
		if err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			out[f.Name] = tags
		}
	}
	return out, nil
}

func (s *StructTags) field(f reflect.StructField) ([]tag.Instance, error) {
	text, ok := f.Tag.Lookup(s.key)
	if !ok {
		return nil, nil
	}
	tags, err := Parse(s.h, text)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "field %s", f.Name)
	}
	return tags, nil
}

func (s *StructTags) typ(t reflect.Type) ([]tag.Instance, error) {
	st, err := structType(t)
	if err != nil {
		return nil, err
	}
	var out []tag.Instance
	for i := range st.NumField() {
		f := st.Field(i)
		if f.Name != "_" {
			continue
		}
		tags, err := s.field(f)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "type %s", st)
		}
		out = append(out, tags...)
	}
	return out, nil
}

func structType(t reflect.Type) (reflect.Type, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errs.New(errs.ErrCodeInvalidInput, "struct tags need a struct, got %v", t)
	}
	return t, nil
}

// Ensure StructTags implements Source.
var _ Source = (*StructTags)(nil)
