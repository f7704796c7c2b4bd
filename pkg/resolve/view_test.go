package resolve

import (
	"testing"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func routes(t *testing.T) *Resolver {
	return New(build(t,
		tag.Descriptor{Name: "Route", Attributes: []tag.AttributeSpec{
			tag.Optional("method", tag.EnumOf("GET", "POST"), tag.Enum("GET")),
			tag.Optional("path", tag.StringType, tag.String("")),
		}},
		tag.Descriptor{
			Name:       "Post",
			Extends:    []tag.ID{"Route"},
			Attributes: []tag.AttributeSpec{tag.Optional("status", tag.NumberType, tag.Number(201))},
			Overrides:  []tag.Override{{Attribute: "method", Value: tag.Enum("POST")}},
			Aliases:    []tag.Alias{{Name: "value", Target: "path"}},
		},
		tag.Descriptor{Name: "Other"},
	))
}

func TestCast(t *testing.T) {
	r := routes(t)
	post := tag.Of("Post").With("value", tag.String("/users"))

	view, err := r.Cast(post, "Route")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if view.Type() != "Route" || view.Instance().Type != "Post" {
		t.Errorf("view = %s as %s", view.Instance(), view.Type())
	}

	tests := []struct {
		attr string
		want tag.Value
	}{
		{"method", tag.Enum("POST")},
		{"path", tag.String("/users")},
	}
	for _, tt := range tests {
		got, err := view.Get(tt.attr)
		if err != nil {
			t.Fatalf("Get(%s): %v", tt.attr, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Get(%s) = %s, want %s", tt.attr, got, tt.want)
		}
	}

	if _, err := view.Get("status"); !errs.Is(err, errs.ErrCodeUnknownAttribute) {
		t.Errorf("Get(status) through Route = %v, want UNKNOWN_ATTRIBUTE", err)
	}
	if _, err := view.Get("value"); !errs.Is(err, errs.ErrCodeUnknownAttribute) {
		t.Errorf("Get(value) through Route = %v, want UNKNOWN_ATTRIBUTE", err)
	}

	values, err := view.Values()
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 {
		t.Errorf("Values() = %v, want method and path", values)
	}
}

func TestCastErrors(t *testing.T) {
	r := routes(t)
	if _, err := r.Cast(tag.Of("Route"), "Post"); !errs.Is(err, errs.ErrCodeNotAnInstance) {
		t.Errorf("Cast(Route as Post) = %v, want NOT_AN_INSTANCE", err)
	}
	if _, err := r.Cast(tag.Of("Other"), "Route"); !errs.Is(err, errs.ErrCodeNotAnInstance) {
		t.Errorf("Cast(Other as Route) = %v, want NOT_AN_INSTANCE", err)
	}
	if _, err := r.Cast(tag.Of("Nope"), "Route"); !errs.Is(err, errs.ErrCodeUnknownTagType) {
		t.Errorf("Cast(Nope) = %v, want UNKNOWN_TAG_TYPE", err)
	}
	if _, err := r.Cast(tag.Of("Post"), "Post"); err != nil {
		t.Errorf("Cast to own type: %v", err)
	}
}
