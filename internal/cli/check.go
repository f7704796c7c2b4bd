package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
)

// checkResult is the outcome of checking one manifest.
type checkResult struct {
	path     string
	types    int
	elements int
	tags     int
	err      error
}

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest...]",
		Short: "Validate tag manifests",
		Long: `Validate tag manifests.

Each manifest is decoded, its tag types are loaded and built into a hierarchy, and the
tags of every element are parsed and fully resolved. Manifests are checked in parallel;
every failure is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				p, err := c.manifestPath()
				if err != nil {
					return err
				}
				paths = []string{p}
			}
			return c.runCheck(cmd.Context(), stdout(cmd), paths)
		},
	}
}

func (c *CLI) runCheck(ctx context.Context, w io.Writer, paths []string) error {
	prog := newProgress(loggerFromContext(ctx))

	results := make([]checkResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.checkManifest(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			printError(w, "%s", r.path)
			printDetail(w, "%s: %v", errs.GetCode(r.err), r.err)
			continue
		}
		printSuccess(w, "%s", r.path)
		printDetail(w, "%d types · %d elements · %d tags", r.types, r.elements, r.tags)
	}
	prog.done(fmt.Sprintf("Checked %d manifests", len(paths)))

	if failed > 0 {
		return fmt.Errorf("%d of %d manifests failed", failed, len(paths))
	}
	return nil
}

// checkManifest builds the manifest's hierarchy and resolves every
// attribute of every element tag, composite components included.
func (c *CLI) checkManifest(path string) checkResult {
	res := checkResult{path: path}
	eng, m, err := c.load(path)
	if err != nil {
		res.err = err
		return res
	}
	res.types = eng.Hierarchy().Len()

	reg, err := m.Registry(eng.Hierarchy())
	if err != nil {
		res.err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	for _, el := range reg.Elements() {
		res.elements++
		observed, err := eng.On(reg, el)
		if err != nil {
			res.err = err
			return res
		}
		res.tags += len(observed)
		for _, inst := range append(observed, eng.Facade().Expand(observed)...) {
			if _, err := eng.Values(inst); err != nil {
				res.err = fmt.Errorf("element %s: %s: %w", el, inst, err)
				return res
			}
		}
	}
	return res
}
