package definition

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func base() tag.Descriptor {
	return tag.Descriptor{
		Name:       "Base",
		Attributes: []tag.AttributeSpec{tag.Optional("x", tag.NumberType, tag.Number(1))},
	}
}

func TestLoad(t *testing.T) {
	l := NewLoader()
	b, err := l.Load(base())
	if err != nil {
		t.Fatalf("Load(Base): %v", err)
	}
	mid, err := l.Load(tag.Descriptor{
		Name:      "Mid",
		Extends:   []tag.ID{"Base"},
		Overrides: []tag.Override{{Attribute: "x", Value: tag.Number(2)}},
		Aliases:   []tag.Alias{{Name: "y", Target: "x"}},
	})
	if err != nil {
		t.Fatalf("Load(Mid): %v", err)
	}

	if b.ID() != "Base" || !b.Provides("x") {
		t.Errorf("Base = %v, should provide x", b.ID())
	}
	if got := mid.Parents(); !slices.Equal(got, []tag.ID{"Base"}) {
		t.Errorf("Parents() = %v, want [Base]", got)
	}
	if v, ok := mid.Override("x"); !ok || !v.Equal(tag.Number(2)) {
		t.Errorf("Override(x) = %v, %v", v, ok)
	}
	if a, ok := mid.Alias("y"); !ok || a.Target != "x" {
		t.Errorf("Alias(y) = %v, %v", a, ok)
	}
	if got := len(l.Definitions()); got != 2 {
		t.Errorf("len(Definitions()) = %d, want 2", got)
	}
}

func TestValueOf(t *testing.T) {
	l := NewLoader()
	d, err := l.Load(tag.Descriptor{
		Name: "T",
		Attributes: []tag.AttributeSpec{
			tag.Required("req", tag.StringType),
			tag.Optional("opt", tag.BoolType, tag.Bool(true)),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, defined, ok := d.ValueOf("req"); !ok || defined {
		t.Errorf("ValueOf(req) defined=%v ok=%v, want false true", defined, ok)
	}
	if v, defined, ok := d.ValueOf("opt"); !ok || !defined || !v.Equal(tag.Bool(true)) {
		t.Errorf("ValueOf(opt) = %v %v %v", v, defined, ok)
	}
	if _, _, ok := d.ValueOf("nope"); ok {
		t.Error("ValueOf(nope) should not be provided")
	}
}

func TestDefinitionIsACopy(t *testing.T) {
	desc := base()
	d, err := NewLoader().Load(desc)
	if err != nil {
		t.Fatal(err)
	}
	*desc.Attributes[0].Default = tag.Number(42)
	desc.Attributes[0].Name = "changed"

	a, ok := d.Attribute("x")
	if !ok || !a.Default.Equal(tag.Number(1)) {
		t.Errorf("Attribute(x) = %v, mutation of the descriptor leaked", a)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		desc tag.Descriptor
		want errs.Code
	}{
		{"empty name", tag.Descriptor{}, errs.ErrCodeInvalidInput},
		{"already loaded", base(), errs.ErrCodeDuplicateTagType},
		{"unknown parent", tag.Descriptor{Name: "A", Extends: []tag.ID{"Nope"}}, errs.ErrCodeUnknownParent},
		{"parent twice", tag.Descriptor{Name: "A", Extends: []tag.ID{"Base", "Base"}}, errs.ErrCodeInvalidInput},
		{"unknown component", tag.Descriptor{Name: "A", Composes: []tag.ID{"Nope"}}, errs.ErrCodeUnknownParent},
		{"self component", tag.Descriptor{Name: "A", Composes: []tag.ID{"A"}}, errs.ErrCodeInvalidInput},
		{
			"duplicate attribute",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{
				tag.Required("a", tag.StringType), tag.Required("a", tag.NumberType),
			}},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"redeclared inherited",
			tag.Descriptor{Name: "A", Extends: []tag.ID{"Base"}, Attributes: []tag.AttributeSpec{tag.Required("x", tag.NumberType)}},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"default type mismatch",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{tag.Optional("a", tag.StringType, tag.Bool(true))}},
			errs.ErrCodeTypeMismatch,
		},
		{
			"enum default outside symbols",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{tag.Optional("m", tag.EnumOf("GET"), tag.Enum("PUT"))}},
			errs.ErrCodeTypeMismatch,
		},
		{
			"override type mismatch",
			tag.Descriptor{Name: "A", Extends: []tag.ID{"Base"}, Overrides: []tag.Override{{Attribute: "x", Value: tag.String("2")}}},
			errs.ErrCodeTypeMismatch,
		},
		{
			"undeclared override",
			tag.Descriptor{Name: "A", Extends: []tag.ID{"Base"}, Overrides: []tag.Override{{Attribute: "z", Value: tag.Number(2)}}},
			errs.ErrCodeUndeclaredOverride,
		},
		{
			"override twice",
			tag.Descriptor{Name: "A", Extends: []tag.ID{"Base"}, Overrides: []tag.Override{
				{Attribute: "x", Value: tag.Number(2)}, {Attribute: "x", Value: tag.Number(3)},
			}},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"invalid attribute type",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{tag.Required("a", tag.Type{})}},
			errs.ErrCodeInvalidInput,
		},
		{
			"invalid attribute name",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{tag.Required("1a", tag.StringType)}},
			errs.ErrCodeInvalidInput,
		},
		{
			"alias shadows attribute",
			tag.Descriptor{Name: "A", Attributes: []tag.AttributeSpec{tag.Required("a", tag.StringType)}, Aliases: []tag.Alias{{Name: "a", Target: "b"}}},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"alias shadows inherited attribute",
			tag.Descriptor{Name: "A", Extends: []tag.ID{"Base"}, Aliases: []tag.Alias{{Name: "x", Target: "z"}}},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"alias without target",
			tag.Descriptor{Name: "A", Aliases: []tag.Alias{{Name: "a"}}},
			errs.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader()
			if _, err := l.Load(base()); err != nil {
				t.Fatal(err)
			}
			_, err := l.Load(tt.desc)
			if !errs.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %s", err, tt.want)
			}
			if !errs.IsDefinitionError(err) && errs.GetCode(err) != errs.ErrCodeInvalidInput {
				t.Errorf("Load() error %v should be a definition or input error", err)
			}
			if got := len(l.Definitions()); got != 1 {
				t.Errorf("failed Load registered a definition: %d", got)
			}
		})
	}
}

func TestAttributeShadowsInheritedAlias(t *testing.T) {
	mid := tag.Descriptor{Name: "Mid", Extends: []tag.ID{"Base"}, Aliases: []tag.Alias{{Name: "y", Target: "x"}}}
	leaf := tag.Descriptor{
		Name:       "Leaf",
		Extends:    []tag.ID{"Mid"},
		Attributes: []tag.AttributeSpec{tag.Optional("y", tag.StringType, tag.String("leafy"))},
	}

	l := NewLoader()
	if _, err := l.LoadAll([]tag.Descriptor{base(), mid}); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(leaf); !errs.Is(err, errs.ErrCodeDuplicateAttribute) {
		t.Errorf("Load(Leaf) error = %v, want %s", err, errs.ErrCodeDuplicateAttribute)
	}

	// Same clash with the batch supplied leaf first.
	_, err := NewLoader().LoadAll([]tag.Descriptor{leaf, mid, base()})
	if !errs.Is(err, errs.ErrCodeDuplicateAttribute) {
		t.Errorf("LoadAll() error = %v, want %s", err, errs.ErrCodeDuplicateAttribute)
	}

	// A component alias may share a name with an attribute of the composite.
	_, err = NewLoader().LoadAll([]tag.Descriptor{base(), mid, {
		Name:       "Composite",
		Extends:    []tag.ID{"Mid"},
		Composes:   []tag.ID{"Base"},
		Attributes: []tag.AttributeSpec{tag.Required("z", tag.NumberType)},
		Aliases:    []tag.Alias{{Name: "z", Target: "x", Component: "Base"}},
	}})
	if err != nil {
		t.Errorf("LoadAll(composite) error = %v", err)
	}
}

func TestLoadAllForwardReferences(t *testing.T) {
	l := NewLoader()
	defs, err := l.LoadAll([]tag.Descriptor{
		{Name: "Leaf", Extends: []tag.ID{"Mid"}},
		{Name: "Mid", Extends: []tag.ID{"Base"}, Overrides: []tag.Override{{Attribute: "x", Value: tag.Number(2)}}},
		base(),
	})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var ids []tag.ID
	for _, d := range defs {
		ids = append(ids, d.ID())
	}
	if want := []tag.ID{"Leaf", "Mid", "Base"}; !slices.Equal(ids, want) {
		t.Errorf("LoadAll ids = %v, want %v", ids, want)
	}
	if _, ok := l.Lookup("Leaf"); !ok {
		t.Error("Leaf should be registered")
	}
}

func TestLoadAllOverrideOfForwardParent(t *testing.T) {
	_, err := NewLoader().LoadAll([]tag.Descriptor{
		{Name: "Mid", Extends: []tag.ID{"Base"}, Overrides: []tag.Override{{Attribute: "x", Value: tag.Bool(true)}}},
		base(),
	})
	if !errs.Is(err, errs.ErrCodeTypeMismatch) {
		t.Errorf("LoadAll() error = %v, want TYPE_MISMATCH", err)
	}
}

func TestLoadAllIsAllOrNothing(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadAll([]tag.Descriptor{
		base(),
		{Name: "Bad", Extends: []tag.ID{"Missing"}},
	})
	if !errs.Is(err, errs.ErrCodeUnknownParent) {
		t.Fatalf("LoadAll() error = %v, want UNKNOWN_PARENT", err)
	}
	if got := len(l.Definitions()); got != 0 {
		t.Errorf("failed LoadAll registered %d definitions", got)
	}
	if _, err := l.Load(base()); err != nil {
		t.Errorf("Load after failed LoadAll: %v", err)
	}
}

func TestLoadAllDuplicateInBatch(t *testing.T) {
	_, err := NewLoader().LoadAll([]tag.Descriptor{base(), base()})
	if !errs.Is(err, errs.ErrCodeDuplicateTagType) {
		t.Errorf("LoadAll() error = %v, want DUPLICATE_TAG_TYPE", err)
	}
}

func TestLoadAllAcceptsCycles(t *testing.T) {
	_, err := NewLoader().LoadAll([]tag.Descriptor{
		{Name: "A", Extends: []tag.ID{"B"}},
		{Name: "B", Extends: []tag.ID{"A"}},
	})
	if err != nil {
		t.Errorf("LoadAll() error = %v, cycles are reported by the builder", err)
	}
}

func TestNewLoaderKnown(t *testing.T) {
	first := NewLoader()
	b, err := first.Load(base())
	if err != nil {
		t.Fatal(err)
	}
	second := NewLoader(b)
	if _, err := second.Load(tag.Descriptor{Name: "Mid", Extends: []tag.ID{"Base"}}); err != nil {
		t.Errorf("Load with known parent: %v", err)
	}
}
