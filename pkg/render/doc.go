// Package render draws tag hierarchies.
//
// The [nodelink] subpackage turns a hierarchy into Graphviz DOT and SVG.
// This package holds the format conversion shared by renderers: [ToPDF] and
// [ToPNG] convert any SVG using the external rsvg-convert tool (librsvg).
//
//	dot := nodelink.ToDOT(h, nodelink.Options{Attributes: true})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/tagmagic/pkg/render/nodelink
package render
