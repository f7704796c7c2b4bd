package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagmagic/pkg/magic"
	"github.com/matzehuels/tagmagic/pkg/manifest"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	tags     []string // observed tags in struct-tag syntax
	elements []string // manifest elements whose tags are observed
	one      bool     // require at most one match
}

func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query <target>",
		Short: "Match observed tags against a target tag type",
		Long: `Match observed tags against a target tag type.

Observed tags come from --tag (e.g. --tag 'Post(path=/users)') and from the tags of
manifest elements named with --element. Composite tags stand for their components. Every
match is printed with its values read through the target type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, m, err := c.loadDefault()
			if err != nil {
				return err
			}
			observed, err := observedTags(eng, m, opts)
			if err != nil {
				return err
			}
			return runQuery(stdout(cmd), eng, observed, tag.ID(args[0]), opts.one)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "observed tag (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.elements, "element", "e", nil, "manifest element to observe (repeatable)")
	cmd.Flags().BoolVar(&opts.one, "one", false, "fail when more than one tag matches")
	return cmd
}

func observedTags(eng *magic.Engine, m *manifest.Manifest, opts queryOpts) ([]tag.Instance, error) {
	var observed []tag.Instance
	for _, text := range opts.tags {
		insts, err := eng.Parse(text)
		if err != nil {
			return nil, err
		}
		observed = append(observed, insts...)
	}
	if len(opts.elements) == 0 {
		return observed, nil
	}
	reg, err := m.Registry(eng.Hierarchy())
	if err != nil {
		return nil, err
	}
	for _, el := range opts.elements {
		insts, err := eng.On(reg, el)
		if err != nil {
			return nil, err
		}
		observed = append(observed, insts...)
	}
	return observed, nil
}

func runQuery(w io.Writer, eng *magic.Engine, observed []tag.Instance, target tag.ID, one bool) error {
	if !eng.Hierarchy().Has(target) {
		return fmt.Errorf("unknown tag type %s", target)
	}

	var matches []tag.Instance
	if one {
		inst, ok, err := eng.One(observed, target)
		if err != nil {
			return err
		}
		if ok {
			matches = []tag.Instance{inst}
		}
	} else {
		matches = eng.All(observed, target)
	}

	if len(matches) == 0 {
		printWarning(w, "no tag matches %s", target)
		return nil
	}
	if nearest, ok := eng.NearestMatch(observed, target); ok {
		printInfo(w, "nearest: %s", nearest)
	}
	for _, inst := range matches {
		printSuccess(w, "%s", inst)
		view, err := eng.Cast(inst, target)
		if err != nil {
			return err
		}
		values, err := view.Values()
		if err != nil {
			return err
		}
		for _, name := range eng.Hierarchy().Attributes(target) {
			printDetail(w, "%s = %s", name, values[name])
		}
	}
	return nil
}
