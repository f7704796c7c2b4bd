package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagmagic/pkg/buildinfo"
	"github.com/matzehuels/tagmagic/pkg/cache"
	"github.com/matzehuels/tagmagic/pkg/graph"
	"github.com/matzehuels/tagmagic/pkg/magic"
	"github.com/matzehuels/tagmagic/pkg/manifest"
	"github.com/matzehuels/tagmagic/pkg/observability"
	"github.com/matzehuels/tagmagic/pkg/resolve"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tagmagic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	manifest string // --manifest flag
	verbose  bool   // --verbose flag
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tagmagic resolves metadata tags through a hierarchy of tag types",
		Long: `Tagmagic loads tag type definitions from a TOML manifest, builds the hierarchy they form,
and answers questions about it: which ancestors a type has, which value an attribute resolves to,
and which observed tags match a target type.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.manifest, "manifest", "m", "", "tag manifest (default from config)")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.ancestorsCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, configPaths()...)
	if err != nil {
		return err
	}
	c.Config = cfg

	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
		observability.SetBuildHooks(&logHooks{logger: c.Logger})
		observability.SetCacheHooks(&logHooks{logger: c.Logger})
		observability.SetResolveHooks(&logHooks{logger: c.Logger})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// manifestPath returns the manifest named by the flag or the config.
func (c *CLI) manifestPath() (string, error) {
	if c.Config.Manifest == "" {
		return "", fmt.Errorf("no manifest: pass --manifest or set manifest in %s.toml", appName)
	}
	return c.Config.Manifest, nil
}

// load reads a manifest and builds an engine over it. A .json path is read
// as an exported hierarchy graph, which declares no elements.
func (c *CLI) load(path string) (*magic.Engine, *manifest.Manifest, error) {
	m, descs, err := readDescriptors(path)
	if err != nil {
		return nil, nil, err
	}
	rc, err := newCache(c.Config)
	if err != nil {
		return nil, nil, err
	}
	eng, err := magic.New(descs, magic.WithLogger(c.Logger), magic.WithCache(rc))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("manifest loaded", "path", path, "types", eng.Hierarchy().Len(), "elements", len(m.Elements))
	return eng, m, nil
}

// loadDefault loads the manifest named by the flag or the config.
func (c *CLI) loadDefault() (*magic.Engine, *manifest.Manifest, error) {
	path, err := c.manifestPath()
	if err != nil {
		return nil, nil, err
	}
	return c.load(path)
}

func readDescriptors(path string) (*manifest.Manifest, []tag.Descriptor, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		descs, err := graph.ReadDescriptorsFile(path)
		return &manifest.Manifest{Path: path}, descs, err
	}
	m, err := manifest.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	descs, err := m.Descriptors()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, descs, nil
}

func newCache(cfg *Config) (cache.Cache[resolve.Key, resolve.Source], error) {
	switch cfg.Cache {
	case cacheNone:
		return cache.NewNull[resolve.Key, resolve.Source](), nil
	case cacheLRU:
		return cache.NewLRU[resolve.Key, resolve.Source](cfg.CacheSize)
	default:
		return cache.NewMap[resolve.Key, resolve.Source](), nil
	}
}

// stdout returns the command's output writer.
func stdout(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
