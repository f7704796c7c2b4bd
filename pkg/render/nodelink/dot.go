package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/render"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Attributes lists declared attributes, overrides and aliases in node
	// labels. When false, only the type name is shown.
	Attributes bool

	// Highlight marks one type and its ancestors with a filled style.
	Highlight tag.ID
}

// ToDOT converts a hierarchy to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes appear in declaration order, extends edges in parent order, then
// composite edges dashed.
func ToDOT(h *hierarchy.Hierarchy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	marked := highlighted(h, opts.Highlight)
	for _, t := range h.Types() {
		label := fmtLabel(h, t, opts.Attributes)
		attrs := fmtAttrs(h, t, label, marked[t])
		fmt.Fprintf(&buf, "  %q [%s];\n", t, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range h.Types() {
		for _, p := range h.Parents(t) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", t, p)
		}
	}
	for _, t := range h.Types() {
		for _, c := range h.Components(t) {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=diamond];\n", t, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func highlighted(h *hierarchy.Hierarchy, t tag.ID) map[tag.ID]bool {
	if t == "" || !h.Has(t) {
		return nil
	}
	marked := make(map[tag.ID]bool)
	for _, id := range h.Chain(t) {
		marked[id] = true
	}
	return marked
}

func fmtLabel(h *hierarchy.Hierarchy, t tag.ID, detailed bool) string {
	if !detailed {
		return string(t)
	}
	def, ok := h.Definition(t)
	if !ok {
		return string(t)
	}

	var parts []string
	for _, a := range def.Attributes() {
		line := fmt.Sprintf("%s: %s", a.Name, a.Type)
		if a.HasDefault() {
			line += " = " + a.Default.String()
		}
		parts = append(parts, line)
	}
	for _, o := range def.Overrides() {
		parts = append(parts, fmt.Sprintf("%s := %s", o.Attribute, o.Value))
	}
	for _, a := range def.Aliases() {
		target := a.Target
		if a.IsComponentAlias() {
			target = string(a.Component) + "." + a.Target
		}
		parts = append(parts, fmt.Sprintf("%s -> %s", a.Name, target))
	}
	if len(parts) == 0 {
		return string(t)
	}
	return string(t) + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(h *hierarchy.Hierarchy, t tag.ID, label string, marked bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case marked:
		attrs = append(attrs, "fillcolor=lightblue")
	case len(h.Components(t)) > 0:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from the
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
