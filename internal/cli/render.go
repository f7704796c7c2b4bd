package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagmagic/pkg/graph"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/render"
	"github.com/matzehuels/tagmagic/pkg/render/nodelink"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json" // serialized hierarchy, reloadable with --manifest

	defaultScale = 2.0 // PNG resolution multiplier
)

// formats lists every render output format.
var formats = append(slices.Clone(render.Formats), formatJSON)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path; stdout when empty
	format     string  // dot, svg, pdf, png, json
	attributes bool    // list attributes in node labels
	highlight  string  // type whose chain is highlighted
	scale      float64 // PNG scale factor
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the tag hierarchy",
		Long: `Draw the tag hierarchy as a node-link diagram.

Arrows point from a type to the types it extends; dashed arrows from a composite to its
components. The json format writes the hierarchy itself, which --manifest loads back.
The format defaults to the extension of --output, else svg.`,
		Example: `  tagmagic render -m routes.toml -o routes.svg
  tagmagic render -m routes.toml -f dot --attributes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.format = formatFor(opts.output, opts.format)
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			eng, _, err := c.loadDefault()
			if err != nil {
				return err
			}
			data, err := renderHierarchy(eng.Hierarchy(), opts)
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err := stdout(cmd).Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess(cmd.ErrOrStderr(), "Rendered %d types", eng.Hierarchy().Len())
			printFile(cmd.ErrOrStderr(), opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().BoolVar(&opts.attributes, "attributes", false, "list attributes, overrides and aliases in labels")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "highlight a type and its ancestors")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

func renderHierarchy(h *hierarchy.Hierarchy, opts renderOpts) ([]byte, error) {
	if opts.highlight != "" && !h.Has(tag.ID(opts.highlight)) {
		return nil, fmt.Errorf("unknown tag type %s", opts.highlight)
	}
	dot := nodelink.ToDOT(h, nodelink.Options{
		Attributes: opts.attributes,
		Highlight:  tag.ID(opts.highlight),
	})
	switch opts.format {
	case formatDOT:
		return []byte(dot), nil
	case formatJSON:
		return graph.MarshalHierarchy(h)
	case formatSVG:
		return nodelink.RenderSVG(dot)
	case formatPDF:
		return nodelink.RenderPDF(dot)
	case formatPNG:
		return nodelink.RenderPNG(dot, opts.scale)
	}
	return nil, fmt.Errorf("unsupported format %q", opts.format)
}

// formatFor infers the format from the output file extension.
func formatFor(output, fallback string) string {
	if i := strings.LastIndexByte(output, '.'); i >= 0 {
		if ext := strings.ToLower(output[i+1:]); slices.Contains(formats, ext) {
			return ext
		}
	}
	return fallback
}

func validateFormat(format string) error {
	if !slices.Contains(formats, format) {
		return fmt.Errorf("invalid format %q (want %s)", format, strings.Join(formats, ", "))
	}
	return nil
}
