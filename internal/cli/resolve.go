package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/magic"
	"github.com/matzehuels/tagmagic/pkg/observe"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

func (c *CLI) resolveCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "resolve <type> [attribute]",
		Short: "Resolve attribute values of a tag instance",
		Long: `Resolve attribute values of a tag instance.

The instance has the given type and the values passed with --set. With an attribute name,
only that attribute is printed; otherwise every attribute in the type's chain is listed with
the type that declares it.`,
		Example: `  tagmagic resolve -m routes.toml Post method
  tagmagic resolve -m routes.toml Post --set path=/users`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := c.loadDefault()
			if err != nil {
				return err
			}
			inst, err := buildInstance(eng.Hierarchy(), tag.ID(args[0]), sets)
			if err != nil {
				return err
			}
			w := stdout(cmd)
			if len(args) == 2 {
				v, err := eng.EffectiveValue(inst, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(w, v)
				return nil
			}
			return printValues(w, eng, inst)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "explicit attribute value as name=value (repeatable)")
	return cmd
}

// buildInstance creates an instance of t with the --set values, each typed
// against the attribute it names.
func buildInstance(h *hierarchy.Hierarchy, t tag.ID, sets []string) (tag.Instance, error) {
	inst := tag.Of(t)
	for _, s := range sets {
		if !strings.Contains(s, "=") {
			return tag.Instance{}, fmt.Errorf("--set %q: want name=value", s)
		}
		parsed, err := observe.ParseInstance(h, fmt.Sprintf("%s(%s)", t, s))
		if err != nil {
			return tag.Instance{}, fmt.Errorf("--set %q: %w", s, err)
		}
		for k, v := range parsed.Values {
			inst = inst.With(k, v)
		}
	}
	return inst, nil
}

func printValues(w io.Writer, eng *magic.Engine, inst tag.Instance) error {
	values, err := eng.Values(inst)
	if err != nil {
		return err
	}
	h := eng.Hierarchy()
	fmt.Fprintln(w, StyleTitle.Render(inst.String()))
	for _, name := range h.Attributes(inst.Type) {
		printKeyValue(w, name, values[name].String())
		declarer, _ := h.Declarer(inst.Type, name)
		note := "declared by " + string(declarer)
		if _, ok := inst.Get(name); ok {
			note = "set explicitly"
		}
		printDetail(w, "%s", note)
	}
	return nil
}
