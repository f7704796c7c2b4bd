package hierarchy

import (
	"bytes"
	stderrors "errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagmagic/pkg/definition"
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/observability"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func load(t *testing.T, descs ...tag.Descriptor) []*definition.Definition {
	t.Helper()
	defs, err := definition.NewLoader().LoadAll(descs)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return defs
}

func mustBuild(t *testing.T, descs ...tag.Descriptor) *Hierarchy {
	t.Helper()
	h, err := Build(load(t, descs...))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return h
}

func num(name string, def float64) tag.AttributeSpec {
	return tag.Optional(name, tag.NumberType, tag.Number(def))
}

func override(name string, v float64) []tag.Override {
	return []tag.Override{{Attribute: name, Value: tag.Number(v)}}
}

// baseMidLeaf is Base{x=1} <- Mid{x=2, y->x} <- Leaf.
func baseMidLeaf() []tag.Descriptor {
	return []tag.Descriptor{
		{Name: "Base", Attributes: []tag.AttributeSpec{num("x", 1)}},
		{Name: "Mid", Extends: []tag.ID{"Base"}, Overrides: override("x", 2), Aliases: []tag.Alias{{Name: "y", Target: "x"}}},
		{Name: "Leaf", Extends: []tag.ID{"Mid"}},
	}
}

func TestAncestorsOf(t *testing.T) {
	h := mustBuild(t,
		tag.Descriptor{Name: "A"},
		tag.Descriptor{Name: "B1", Extends: []tag.ID{"A"}},
		tag.Descriptor{Name: "B2", Extends: []tag.ID{"A"}},
		tag.Descriptor{Name: "D", Extends: []tag.ID{"B1", "B2"}},
		tag.Descriptor{Name: "M", Extends: []tag.ID{"A"}},
		tag.Descriptor{Name: "X", Extends: []tag.ID{"A", "M"}},
		tag.Descriptor{Name: "E", Extends: []tag.ID{"D"}},
	)

	tests := []struct {
		typ  tag.ID
		want []tag.ID
	}{
		{"A", nil},
		{"B1", []tag.ID{"A"}},
		{"D", []tag.ID{"B1", "B2", "A"}},
		{"E", []tag.ID{"D", "B1", "B2", "A"}},
		// A is a direct parent of X but also an ancestor of M, so M comes first.
		{"X", []tag.ID{"M", "A"}},
		{"Unknown", nil},
	}
	for _, tt := range tests {
		if got := h.AncestorsOf(tt.typ); !slices.Equal(got, tt.want) {
			t.Errorf("AncestorsOf(%s) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestAncestorsInvariants(t *testing.T) {
	h := mustBuild(t,
		tag.Descriptor{Name: "R"},
		tag.Descriptor{Name: "P", Extends: []tag.ID{"R"}},
		tag.Descriptor{Name: "Q", Extends: []tag.ID{"R", "P"}},
		tag.Descriptor{Name: "S", Extends: []tag.ID{"Q", "P"}},
		tag.Descriptor{Name: "T", Extends: []tag.ID{"S", "R", "Q"}},
	)
	for _, typ := range h.Types() {
		anc := h.AncestorsOf(typ)
		seen := map[tag.ID]bool{}
		for i, a := range anc {
			if a == typ {
				t.Errorf("AncestorsOf(%s) contains itself", typ)
			}
			if seen[a] {
				t.Errorf("AncestorsOf(%s) contains %s twice", typ, a)
			}
			seen[a] = true
			for _, later := range anc[i+1:] {
				if h.IsAncestor(a, later) {
					t.Errorf("AncestorsOf(%s): %s listed before its descendant %s", typ, a, later)
				}
			}
		}
	}
}

func TestBuildCycle(t *testing.T) {
	tests := []struct {
		name  string
		descs []tag.Descriptor
		cycle []string
	}{
		{
			"two types",
			[]tag.Descriptor{{Name: "A", Extends: []tag.ID{"B"}}, {Name: "B", Extends: []tag.ID{"A"}}},
			[]string{"A", "B", "A"},
		},
		{
			"self",
			[]tag.Descriptor{{Name: "A", Extends: []tag.ID{"A"}}},
			[]string{"A", "A"},
		},
		{
			"below a root",
			[]tag.Descriptor{
				{Name: "Root"},
				{Name: "A", Extends: []tag.ID{"Root", "C"}},
				{Name: "B", Extends: []tag.ID{"A"}},
				{Name: "C", Extends: []tag.ID{"B"}},
			},
			[]string{"A", "C", "B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Build(load(t, tt.descs...))
			if h != nil {
				t.Error("Build should not publish a hierarchy on error")
			}
			if !errs.Is(err, errs.ErrCodeCyclicHierarchy) {
				t.Fatalf("Build() error = %v, want CYCLIC_HIERARCHY", err)
			}
			var e *errs.Error
			if !asError(err, &e) || !slices.Equal(e.Cycle, tt.cycle) {
				t.Errorf("Cycle = %v, want %v", e.Cycle, tt.cycle)
			}
			if !strings.Contains(err.Error(), errs.FormatCycle(tt.cycle)) {
				t.Errorf("error %q should name the cycle", err)
			}
		})
	}
}

func TestAmbiguousOverride(t *testing.T) {
	diamond := func(dOverride bool) []tag.Descriptor {
		d := tag.Descriptor{Name: "D", Extends: []tag.ID{"B1", "B2"}}
		if dOverride {
			d.Overrides = override("x", 4)
		}
		return []tag.Descriptor{
			{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}},
			{Name: "B1", Extends: []tag.ID{"A"}, Overrides: override("x", 2)},
			{Name: "B2", Extends: []tag.ID{"A"}, Overrides: override("x", 3)},
			d,
			{Name: "E", Extends: []tag.ID{"D"}},
		}
	}

	_, err := Build(load(t, diamond(false)...))
	if !errs.Is(err, errs.ErrCodeAmbiguousOverride) {
		t.Fatalf("Build() error = %v, want AMBIGUOUS_OVERRIDE", err)
	}
	if !errs.IsHierarchyError(err) {
		t.Errorf("%v should be a hierarchy error", err)
	}

	// Declared leaf first, the conflict is still reported on D, where it arises.
	reversed := diamond(false)
	slices.Reverse(reversed)
	_, err = Build(load(t, reversed...))
	var e *errs.Error
	if !stderrors.As(err, &e) || e.Type != "D" {
		t.Errorf("Build(reversed) error = %v, want one on D", err)
	}

	h, err := Build(load(t, diamond(true)...))
	if err != nil {
		t.Fatalf("Build() with resolving override: %v", err)
	}
	if got := h.DescendantsOf("D"); !slices.Equal(got, []tag.ID{"E"}) {
		t.Errorf("DescendantsOf(D) = %v, want [E]", got)
	}
}

func TestOverrideConflicts(t *testing.T) {
	req := tag.Required("x", tag.NumberType)
	tests := []struct {
		name  string
		descs []tag.Descriptor
		want  errs.Code
	}{
		{
			"equal values agree",
			[]tag.Descriptor{
				{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}},
				{Name: "B1", Extends: []tag.ID{"A"}, Overrides: override("x", 2)},
				{Name: "B2", Extends: []tag.ID{"A"}, Overrides: override("x", 2)},
				{Name: "D", Extends: []tag.ID{"B1", "B2"}},
			},
			"",
		},
		{
			"one branch overrides",
			[]tag.Descriptor{
				{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}},
				{Name: "B1", Extends: []tag.ID{"A"}, Overrides: override("x", 2)},
				{Name: "B2", Extends: []tag.ID{"A"}},
				{Name: "D", Extends: []tag.ID{"B1", "B2"}},
			},
			"",
		},
		{
			"nearer override on same path",
			[]tag.Descriptor{
				{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}},
				{Name: "B", Extends: []tag.ID{"A"}, Overrides: override("x", 2)},
				{Name: "C", Extends: []tag.ID{"B", "A"}},
			},
			"",
		},
		{
			"unrelated declarations differ",
			[]tag.Descriptor{
				{Name: "L", Attributes: []tag.AttributeSpec{num("x", 1)}},
				{Name: "R", Attributes: []tag.AttributeSpec{num("x", 2)}},
				{Name: "D", Extends: []tag.ID{"L", "R"}},
			},
			errs.ErrCodeAmbiguousOverride,
		},
		{
			"required against default",
			[]tag.Descriptor{
				{Name: "L", Attributes: []tag.AttributeSpec{req}},
				{Name: "R", Attributes: []tag.AttributeSpec{num("x", 2)}},
				{Name: "D", Extends: []tag.ID{"L", "R"}},
			},
			errs.ErrCodeAmbiguousOverride,
		},
		{
			"conflicting declared types",
			[]tag.Descriptor{
				{Name: "L", Attributes: []tag.AttributeSpec{tag.Required("x", tag.NumberType)}},
				{Name: "R", Attributes: []tag.AttributeSpec{tag.Required("x", tag.StringType)}},
				{Name: "D", Extends: []tag.ID{"L", "R"}},
			},
			errs.ErrCodeAmbiguousOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(load(t, tt.descs...))
			if tt.want == "" {
				if err != nil {
					t.Errorf("Build() error = %v, want nil", err)
				}
				return
			}
			if !errs.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestResolveAlias(t *testing.T) {
	h := mustBuild(t, baseMidLeaf()...)

	tests := []struct {
		typ  tag.ID
		name string
		want string
	}{
		{"Leaf", "y", "x"},
		{"Mid", "y", "x"},
		{"Base", "y", "y"},
		{"Leaf", "x", "x"},
		{"Unknown", "y", "y"},
	}
	for _, tt := range tests {
		if got := h.ResolveAlias(tt.typ, tt.name); got != tt.want {
			t.Errorf("ResolveAlias(%s, %s) = %s, want %s", tt.typ, tt.name, got, tt.want)
		}
	}
	if got := h.AliasesFor("Leaf", "x"); !slices.Equal(got, []string{"y"}) {
		t.Errorf("AliasesFor(Leaf, x) = %v, want [y]", got)
	}
}

func TestAliasChains(t *testing.T) {
	h := mustBuild(t,
		tag.Descriptor{
			Name:       "A",
			Attributes: []tag.AttributeSpec{num("x", 1)},
			Aliases:    []tag.Alias{{Name: "a", Target: "b"}, {Name: "b", Target: "x"}},
		},
		tag.Descriptor{Name: "B", Extends: []tag.ID{"A"}, Aliases: []tag.Alias{{Name: "c", Target: "a"}}},
	)
	if got := h.ResolveAlias("B", "c"); got != "x" {
		t.Errorf("ResolveAlias(B, c) = %s, want x", got)
	}
	if !h.IsAlias("B", "a") || h.IsAlias("A", "c") {
		t.Error("IsAlias should follow inheritance downwards only")
	}
}

func TestAliasErrors(t *testing.T) {
	tests := []struct {
		name  string
		descs []tag.Descriptor
		want  errs.Code
	}{
		{
			"cycle",
			[]tag.Descriptor{{
				Name:       "A",
				Attributes: []tag.AttributeSpec{num("x", 1)},
				Aliases:    []tag.Alias{{Name: "a", Target: "b"}, {Name: "b", Target: "a"}},
			}},
			errs.ErrCodeCyclicAlias,
		},
		{
			"cycle through ancestor",
			[]tag.Descriptor{
				{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}, Aliases: []tag.Alias{{Name: "a", Target: "x"}}},
				{Name: "B", Extends: []tag.ID{"A"}, Aliases: []tag.Alias{{Name: "b", Target: "a"}}},
				{Name: "C", Extends: []tag.ID{"B"}, Aliases: []tag.Alias{{Name: "a", Target: "b"}}},
			},
			errs.ErrCodeCyclicAlias,
		},
		{
			"alias and attribute from different parents",
			[]tag.Descriptor{
				{Name: "A", Attributes: []tag.AttributeSpec{num("x", 1)}, Aliases: []tag.Alias{{Name: "y", Target: "x"}}},
				{Name: "B", Attributes: []tag.AttributeSpec{tag.Optional("y", tag.StringType, tag.String("b"))}},
				{Name: "D", Extends: []tag.ID{"A", "B"}},
			},
			errs.ErrCodeDuplicateAttribute,
		},
		{
			"dangling",
			[]tag.Descriptor{{Name: "A", Aliases: []tag.Alias{{Name: "a", Target: "nope"}}}},
			errs.ErrCodeDanglingAlias,
		},
		{
			"conflicting targets",
			[]tag.Descriptor{
				{Name: "L", Attributes: []tag.AttributeSpec{num("x", 1)}, Aliases: []tag.Alias{{Name: "v", Target: "x"}}},
				{Name: "R", Attributes: []tag.AttributeSpec{num("z", 1)}, Aliases: []tag.Alias{{Name: "v", Target: "z"}}},
				{Name: "D", Extends: []tag.ID{"L", "R"}},
			},
			errs.ErrCodeAmbiguousOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(load(t, tt.descs...))
			if !errs.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestComponentAliases(t *testing.T) {
	route := tag.Descriptor{Name: "Route", Attributes: []tag.AttributeSpec{tag.Optional("path", tag.StringType, tag.String(""))}}
	auth := tag.Descriptor{Name: "Auth", Attributes: []tag.AttributeSpec{tag.Optional("role", tag.StringType, tag.String("user"))}}
	composite := func(aliases ...tag.Alias) tag.Descriptor {
		return tag.Descriptor{
			Name: "Secured",
			Attributes: []tag.AttributeSpec{
				tag.Optional("path", tag.StringType, tag.String("/")),
				tag.Optional("role", tag.StringType, tag.String("admin")),
				tag.Optional("level", tag.NumberType, tag.Number(1)),
			},
			Composes: []tag.ID{"Route", "Auth"},
			Aliases:  aliases,
		}
	}

	h := mustBuild(t, route, auth, composite(
		tag.Alias{Name: "path", Target: "path", Component: "Route"},
		tag.Alias{Name: "role", Target: "role", Component: "Auth"},
	))
	if got := h.Components("Secured"); !slices.Equal(got, []tag.ID{"Route", "Auth"}) {
		t.Errorf("Components(Secured) = %v", got)
	}
	if h.ResolveAlias("Secured", "path") != "path" {
		t.Error("component aliases must not redirect the composite's own reads")
	}

	tests := []struct {
		name  string
		alias tag.Alias
		want  errs.Code
	}{
		{"not a component", tag.Alias{Name: "path", Target: "path", Component: "Other"}, errs.ErrCodeDanglingAlias},
		{"unknown target", tag.Alias{Name: "path", Target: "nope", Component: "Route"}, errs.ErrCodeDanglingAlias},
		{"unknown own attribute", tag.Alias{Name: "nope", Target: "path", Component: "Route"}, errs.ErrCodeDanglingAlias},
		{"kind mismatch", tag.Alias{Name: "level", Target: "path", Component: "Route"}, errs.ErrCodeTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := tag.Descriptor{Name: "Other"}
			_, err := Build(load(t, route, auth, other, composite(tt.alias)))
			if !errs.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestBuildInputErrors(t *testing.T) {
	l := definition.NewLoader()
	defs, err := l.LoadAll(baseMidLeaf())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Build(defs[1:]); !errs.Is(err, errs.ErrCodeUnknownParent) {
		t.Errorf("Build(without Base) = %v, want UNKNOWN_PARENT", err)
	}
	if _, err := Build(append(defs, defs[0])); !errs.Is(err, errs.ErrCodeDuplicateTagType) {
		t.Errorf("Build(duplicate) = %v, want DUPLICATE_TAG_TYPE", err)
	}
	if _, err := Build([]*definition.Definition{nil}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Build(nil) = %v, want INVALID_INPUT", err)
	}
	h, err := Build(nil)
	if err != nil || h.Len() != 0 {
		t.Errorf("Build(nil slice) = %v, %v, want empty hierarchy", h, err)
	}
}

func TestQueries(t *testing.T) {
	h := mustBuild(t, baseMidLeaf()...)

	if !h.IsAncestor("Base", "Leaf") || h.IsAncestor("Leaf", "Base") || h.IsAncestor("Leaf", "Leaf") {
		t.Error("IsAncestor should be proper and directed")
	}
	if !h.IsA("Leaf", "Leaf") || !h.IsA("Leaf", "Base") || h.IsA("Base", "Leaf") || h.IsA("Nope", "Nope") {
		t.Error("IsA mismatch")
	}
	if d, ok := h.Distance("Leaf", "Base"); !ok || d != 2 {
		t.Errorf("Distance(Leaf, Base) = %d, %v, want 2, true", d, ok)
	}
	if _, ok := h.Distance("Base", "Leaf"); ok {
		t.Error("Distance(Base, Leaf) should not exist")
	}
	if got := h.Children("Base"); !slices.Equal(got, []tag.ID{"Mid"}) {
		t.Errorf("Children(Base) = %v", got)
	}
	if got := h.Parents("Leaf"); !slices.Equal(got, []tag.ID{"Mid"}) {
		t.Errorf("Parents(Leaf) = %v", got)
	}
	if got := h.Roots(); !slices.Equal(got, []tag.ID{"Base"}) {
		t.Errorf("Roots() = %v", got)
	}
	if got := h.DescendantsOf("Base"); !slices.Equal(got, []tag.ID{"Mid", "Leaf"}) {
		t.Errorf("DescendantsOf(Base) = %v", got)
	}
	if got := h.Chain("Leaf"); !slices.Equal(got, []tag.ID{"Leaf", "Mid", "Base"}) {
		t.Errorf("Chain(Leaf) = %v", got)
	}
	if s, ok := h.Spec("Leaf", "x"); !ok || !s.Type.Equal(tag.NumberType) {
		t.Errorf("Spec(Leaf, x) = %v, %v", s, ok)
	}
	if owner, _ := h.Declarer("Leaf", "x"); owner != "Base" {
		t.Errorf("Declarer(Leaf, x) = %s, want Base", owner)
	}
	if got := h.Attributes("Leaf"); !slices.Equal(got, []string{"x"}) {
		t.Errorf("Attributes(Leaf) = %v", got)
	}
	if !h.Has("Mid") || h.Has("Nope") {
		t.Error("Has mismatch")
	}
	if d, ok := h.Definition("Mid"); !ok || d.ID() != "Mid" {
		t.Error("Definition(Mid) missing")
	}
}

type countingHooks struct {
	observability.NoopBuildHooks
	starts, completes int
	lastErr           error
}

func (c *countingHooks) OnBuildStart(int) { c.starts++ }
func (c *countingHooks) OnBuildComplete(_ int, _ time.Duration, err error) {
	c.completes++
	c.lastErr = err
}

func TestBuildHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetBuildHooks(hooks)
	defer observability.Reset()

	mustBuild(t, baseMidLeaf()...)
	_, _ = Build(load(t, tag.Descriptor{Name: "A", Extends: []tag.ID{"A"}}))

	if hooks.starts != 2 || hooks.completes != 2 {
		t.Errorf("hooks saw %d starts, %d completes, want 2 each", hooks.starts, hooks.completes)
	}
	if !errs.Is(hooks.lastErr, errs.ErrCodeCyclicHierarchy) {
		t.Errorf("last build error = %v, want CYCLIC_HIERARCHY", hooks.lastErr)
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	if _, err := Build(load(t, baseMidLeaf()...), WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "hierarchy built") {
		t.Errorf("debug log missing build summary: %q", buf.String())
	}
}

func asError(err error, target **errs.Error) bool {
	return stderrors.As(err, target)
}
