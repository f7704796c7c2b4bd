package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func (c *CLI) ancestorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ancestors <type>",
		Short: "Print the ancestors of a tag type, nearest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := c.loadDefault()
			if err != nil {
				return err
			}
			return printAncestors(stdout(cmd), eng.Hierarchy(), tag.ID(args[0]))
		},
	}
}

func printAncestors(w io.Writer, h *hierarchy.Hierarchy, t tag.ID) error {
	if !h.Has(t) {
		return fmt.Errorf("unknown tag type %s", t)
	}
	fmt.Fprintln(w, StyleTitle.Render(string(t)))
	ancestors := h.AncestorsOf(t)
	if len(ancestors) == 0 {
		printDetail(w, "no ancestors")
		return nil
	}
	for i, a := range ancestors {
		d, _ := h.Distance(t, a)
		fmt.Fprintf(w, "%3d. %s %s\n", i+1, fmtType(a), StyleDim.Render(fmt.Sprintf("(distance %d)", d)))
	}
	return nil
}
