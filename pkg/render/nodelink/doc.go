// Package nodelink renders tag hierarchies as node-link diagrams.
//
// Every tag type is a box. A solid arrow points from a type to each parent
// it extends, so with the default bottom-to-top layout roots sit at the top.
// A dashed arrow points from a composite type to each of its components.
//
//	dot := nodelink.ToDOT(h, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// With [Options].Attributes set, labels list the attributes a type declares,
// the defaults it overrides and the aliases it introduces:
//
//	Post
//	method := POST
//	value -> path
//
// SVG rendering uses [github.com/goccy/go-graphviz] in-process. PDF and PNG
// conversion requires librsvg (rsvg-convert).
package nodelink
