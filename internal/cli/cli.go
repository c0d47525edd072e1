// Package cli implements the stepwise command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/buildinfo"
	"github.com/matzehuels/stepwise/pkg/cache"
	"github.com/matzehuels/stepwise/pkg/config"
	"github.com/matzehuels/stepwise/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stepwise"

	// defaultMaxSteps bounds non-interactive runs.
	defaultMaxSteps = 100_000
)

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
	Out    io.Writer

	// configPath is set by the --config flag; empty means the default.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stepwise steps through textbook algorithms one unit of work at a time",
		Long:         `Stepwise runs heap, sorting, dynamic programming and clustering algorithms as step-through controllers. Every step can be undone, rendered, or served over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stepwise/config.toml)")

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editDistanceCommand())
	root.AddCommand(c.knapsackCommand())
	root.AddCommand(c.kmeansCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config named by --config, or the default file.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Renderer Factory
// =============================================================================

// newRenderer creates a file-cached renderer for CLI use.
func (c *CLI) newRenderer(ctx context.Context, noCache bool) (*render.Renderer, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("renderer ready", "cache", !noCache, "backend", cfg.Cache.Backend)
	return render.NewRenderer(cache.Instrument(cc, "render"),
		render.WithTTL(cfg.Cache.TTL.Duration),
		render.WithLogger(c.Logger),
	), nil
}

// newCache returns the cache for one-shot commands. These always use the
// file cache unless caching is off; Redis is only worth it for serve.
func newCache(cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	dir, err := renderCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// renderCacheDir is [cache] dir, or ~/.cache/stepwise when unset.
func renderCacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

// cacheDir resolves the render cache directory from the loaded config.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	return renderCacheDir(cfg)
}
