package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/tagmagic/pkg/definition"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func build(t *testing.T, descs ...tag.Descriptor) *hierarchy.Hierarchy {
	t.Helper()
	defs, err := definition.NewLoader().LoadAll(descs)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	h, err := hierarchy.Build(defs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return h
}

func routes(t *testing.T) *hierarchy.Hierarchy {
	return build(t,
		tag.Descriptor{Name: "Route", Attributes: []tag.AttributeSpec{tag.Optional("weight", tag.NumberType, tag.Number(1))}},
		tag.Descriptor{
			Name:      "Get",
			Extends:   []tag.ID{"Route"},
			Overrides: []tag.Override{{Attribute: "weight", Value: tag.Number(2)}},
			Aliases:   []tag.Alias{{Name: "value", Target: "weight"}},
		},
		tag.Descriptor{Name: "Auth"},
		tag.Descriptor{Name: "Secured", Composes: []tag.ID{"Get", "Auth"}},
	)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(routes(t), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=BT",
		`"Route" [label="Route"]`,
		`"Get" -> "Route";`,
		`"Secured" -> "Get" [style=dashed`,
		`"Secured" -> "Auth" [style=dashed`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "weight") {
		t.Error("ToDOT() without Attributes must not list attributes")
	}
}

func TestToDOT_Attributes(t *testing.T) {
	dot := ToDOT(routes(t), Options{Attributes: true})

	for _, want := range []string{
		`weight: number = 1`,
		`weight := 2`,
		`value -> weight`,
		`"Auth" [label="Auth"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() detailed output missing %q", want)
		}
	}
}

func TestToDOT_Styles(t *testing.T) {
	h := routes(t)

	dot := ToDOT(h, Options{})
	if !strings.Contains(dot, `"Secured" [label="Secured", style="rounded,filled,dashed"`) {
		t.Error("composite node should be dashed")
	}

	dot = ToDOT(h, Options{Highlight: "Get"})
	for _, id := range []string{"Get", "Route"} {
		if !strings.Contains(dot, `"`+id+`" [label="`+id+`", fillcolor=lightblue]`) {
			t.Errorf("%s should be highlighted", id)
		}
	}
	if strings.Contains(dot, `"Auth" [label="Auth", fillcolor=lightblue]`) {
		t.Error("Auth is not in the chain of Get")
	}

	if got := ToDOT(h, Options{Highlight: "Missing"}); got != ToDOT(h, Options{}) {
		t.Error("unknown highlight should be ignored")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	h := routes(t)
	first := ToDOT(h, Options{Attributes: true})
	for range 10 {
		if got := ToDOT(h, Options{Attributes: true}); got != first {
			t.Fatal("ToDOT() output differs between calls")
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
