package magic

import (
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/manifest"
	"github.com/matzehuels/tagmagic/pkg/observe"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// loadExample builds an engine and element registry from examples/.
func loadExample(t *testing.T, name string) (*Engine, *observe.Registry) {
	t.Helper()
	m, err := manifest.ReadFile(filepath.Join("..", "..", "examples", name))
	if err != nil {
		t.Fatal(err)
	}
	descs, err := m.Descriptors()
	if err != nil {
		t.Fatal(err)
	}
	eng, err := New(descs)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := m.Registry(eng.Hierarchy())
	if err != nil {
		t.Fatal(err)
	}
	return eng, reg
}

func TestExampleManifests(t *testing.T) {
	for _, name := range []string{"routes.toml", "validation.toml"} {
		t.Run(name, func(t *testing.T) {
			eng, reg := loadExample(t, name)
			for _, el := range reg.Elements() {
				observed, err := eng.On(reg, el)
				if err != nil {
					t.Fatalf("On(%s) error: %v", el, err)
				}
				for _, inst := range eng.Facade().Expand(observed) {
					if _, err := eng.Values(inst); err != nil {
						t.Errorf("Values(%s) on %s error: %v", inst, el, err)
					}
				}
			}
		})
	}
}

func TestValidationExample(t *testing.T) {
	eng, reg := loadExample(t, "validation.toml")

	tests := []struct {
		inst string
		attr string
		want string
	}{
		{"Positive", "message", `"out of range"`},
		{"Positive", "min", "1"},
		{"Positive", "severity", "error"},
		{"Positive(max=150)", "max", "150"},
		{"Length(10)", "max", "10"},
		{"Length", "min", "0"},
		{"Pattern(^[A-Z])", "regexp", `"^[A-Z]"`},
		{"NonEmptyName", "max", "64"},
	}
	for _, tt := range tests {
		t.Run(tt.inst+"."+tt.attr, func(t *testing.T) {
			inst, err := observe.ParseInstance(eng.Hierarchy(), tt.inst)
			if err != nil {
				t.Fatal(err)
			}
			v, err := eng.EffectiveValue(inst, tt.attr)
			if err != nil {
				t.Fatal(err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("EffectiveValue(%s, %s) = %s, want %s", tt.inst, tt.attr, got, tt.want)
			}
		})
	}

	if _, err := eng.EffectiveValue(tag.Of("Pattern"), "regexp"); !errs.Is(err, errs.ErrCodeMissingRequiredAttribute) {
		t.Errorf("bare Pattern regexp error = %v, want %s", err, errs.ErrCodeMissingRequiredAttribute)
	}

	observed, err := eng.On(reg, "User.Name")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(eng.All(observed, "Constraint")); got != 3 {
		t.Errorf("len(All(User.Name, Constraint)) = %d, want 3", got)
	}
	if _, _, err := eng.One(observed, "Pattern"); !errs.Is(err, errs.ErrCodeAmbiguousMatch) {
		t.Errorf("One(User.Name, Pattern) error = %v, want %s", err, errs.ErrCodeAmbiguousMatch)
	}
	length, ok, err := eng.One(observed, "Length")
	if err != nil || !ok {
		t.Fatalf("One(User.Name, Length) = %v, %v, %v", length, ok, err)
	}
	if v, err := eng.EffectiveValue(length, "max"); err != nil || v.String() != "64" {
		t.Errorf("component Length max = %v, %v, want 64", v, err)
	}
}
