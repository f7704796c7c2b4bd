package observe

import (
	"reflect"
	"testing"

	"github.com/matzehuels/tagmagic/pkg/definition"
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func routes(t *testing.T) *hierarchy.Hierarchy {
	t.Helper()
	defs, err := definition.NewLoader().LoadAll([]tag.Descriptor{
		{Name: "Route", Attributes: []tag.AttributeSpec{
			tag.Optional("method", tag.EnumOf("GET", "POST"), tag.Enum("GET")),
			tag.Optional("path", tag.StringType, tag.String("")),
			tag.Optional("status", tag.NumberType, tag.Number(200)),
		}},
		{
			Name:      "Post",
			Extends:   []tag.ID{"Route"},
			Overrides: []tag.Override{{Attribute: "method", Value: tag.Enum("POST")}},
			Aliases:   []tag.Alias{{Name: "value", Target: "path"}},
		},
		{Name: "Secured", Attributes: []tag.AttributeSpec{
			tag.Optional("roles", tag.ArrayOf(tag.StringType), tag.Array(tag.KindString)),
			tag.Optional("strict", tag.BoolType, tag.Bool(false)),
		}},
		{Name: "web/Deprecated"},
	})
	if err != nil {
		t.Fatal(err)
	}
	h, err := hierarchy.Build(defs)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestParse(t *testing.T) {
	h := routes(t)

	tests := []struct {
		text string
		want []tag.Instance
	}{
		{"Post", []tag.Instance{tag.Of("Post")}},
		{"@Post()", []tag.Instance{tag.Of("Post")}},
		{"Post(/users)", []tag.Instance{tag.Of("Post").With("value", tag.String("/users"))}},
		{
			"Post(path=/users, status=201)",
			[]tag.Instance{tag.Of("Post").With("path", tag.String("/users")).With("status", tag.Number(201))},
		},
		{
			`Route(method=POST, path="/a,b;c")`,
			[]tag.Instance{tag.Of("Route").With("method", tag.Enum("POST")).With("path", tag.String("/a,b;c"))},
		},
		{
			"Secured(roles=[admin|ops], strict=true); web/Deprecated",
			[]tag.Instance{
				tag.Of("Secured").With("roles", tag.Array(tag.KindString, tag.String("admin"), tag.String("ops"))).With("strict", tag.Bool(true)),
				tag.Of("web/Deprecated"),
			},
		},
		{" ; Post ; ", []tag.Instance{tag.Of("Post")}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(h, tt.text)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.text, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i].String() != tt.want[i].String() {
					t.Errorf("Parse(%q)[%d] = %s, want %s", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	h := routes(t)

	tests := []struct {
		text string
		want errs.Code
	}{
		{"Post(path=/a", errs.ErrCodeInvalidTagSyntax},
		{"Post(path=1, 2)", errs.ErrCodeInvalidTagSyntax},
		{`Post(path="/a)`, errs.ErrCodeInvalidTagSyntax},
		{"Post(path=/a, path=/b)", errs.ErrCodeInvalidTagSyntax},
		{"Post(value=/a, path=/b)", errs.ErrCodeInvalidTagSyntax},
		{"Post(path=/b, value=/a)", errs.ErrCodeInvalidTagSyntax},
		{"Po st", errs.ErrCodeInvalidTagSyntax},
		{"Nope", errs.ErrCodeUnknownTagType},
		{"Post(nope=1)", errs.ErrCodeUnknownAttribute},
		{"Route(/users)", errs.ErrCodeUnknownAttribute},
		{"Post(status=many)", errs.ErrCodeInvalidValue},
		{"Route(method=PUT)", errs.ErrCodeInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if _, err := Parse(h, tt.text); !errs.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %s", tt.text, err, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("CreateUser", tag.Of("Post"))
	r.Register("ListUsers", tag.Of("Route"))
	r.Register("CreateUser", tag.Of("Secured"))

	got, err := r.ObservedTagsOn("CreateUser")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Type != "Post" || got[1].Type != "Secured" {
		t.Errorf("ObservedTagsOn(CreateUser) = %v", got)
	}
	if got, _ := r.ObservedTagsOn("Nope"); len(got) != 0 {
		t.Errorf("ObservedTagsOn(Nope) = %v, want none", got)
	}
	if _, err := r.ObservedTagsOn(42); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ObservedTagsOn(42) = %v, want INVALID_INPUT", err)
	}
	if els := r.Elements(); len(els) != 2 || els[0] != "CreateUser" {
		t.Errorf("Elements() = %v", els)
	}
}

type users struct {
	_      struct{} `tag:"Secured(roles=[admin])"`
	Create func()   `tag:"Post(/users)"`
	List   func()   `tag:"Route(path=/users); web/Deprecated"`
	Helper func()
	Custom func() `meta:"Post"`
}

type broken struct {
	Bad func() `tag:"Post(nope=1)"`
}

func TestStructTags(t *testing.T) {
	h := routes(t)
	src := NewStructTags(h)

	typeTags, err := src.ObservedTagsOn(&users{})
	if err != nil {
		t.Fatal(err)
	}
	if len(typeTags) != 1 || typeTags[0].Type != "Secured" {
		t.Errorf("type tags = %v, want [@Secured]", typeTags)
	}
	if again, _ := src.ObservedTagsOn(reflect.TypeOf(users{})); len(again) != 1 {
		t.Errorf("reflect.Type element = %v", again)
	}

	create, err := src.Field(users{}, "Create")
	if err != nil {
		t.Fatal(err)
	}
	if len(create) != 1 || create[0].String() != `@Post(value="/users")` {
		t.Errorf("Field(Create) = %v", create)
	}

	f, _ := reflect.TypeOf(users{}).FieldByName("List")
	list, err := src.ObservedTagsOn(f)
	if err != nil || len(list) != 2 {
		t.Errorf("ObservedTagsOn(List field) = %v, %v", list, err)
	}

	fields, err := src.Fields(users{})
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 {
		t.Errorf("Fields() = %v, want Create and List", fields)
	}

	custom, err := NewStructTags(h, WithKey("meta")).Field(users{}, "Custom")
	if err != nil || len(custom) != 1 {
		t.Errorf("WithKey(meta) Field(Custom) = %v, %v", custom, err)
	}
}

func TestStructTagsErrors(t *testing.T) {
	src := NewStructTags(routes(t))

	if _, err := src.Fields(broken{}); !errs.Is(err, errs.ErrCodeUnknownAttribute) {
		t.Errorf("Fields(broken) = %v, want UNKNOWN_ATTRIBUTE", err)
	}
	if _, err := src.ObservedTagsOn(42); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ObservedTagsOn(42) = %v, want INVALID_INPUT", err)
	}
	if _, err := src.ObservedTagsOn(nil); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ObservedTagsOn(nil) = %v, want INVALID_INPUT", err)
	}
	if _, err := src.Field(users{}, "Missing"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Field(Missing) = %v, want INVALID_INPUT", err)
	}
}
