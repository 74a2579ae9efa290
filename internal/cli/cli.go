// Package cli implements the eventcards command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/buildinfo"
	"github.com/matzehuels/eventcards/pkg/cache"
	"github.com/matzehuels/eventcards/pkg/config"
	"github.com/matzehuels/eventcards/pkg/fonts"
	"github.com/matzehuels/eventcards/pkg/history"
	"github.com/matzehuels/eventcards/pkg/pipeline"
	"github.com/matzehuels/eventcards/pkg/render/graphic"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "eventcards"

// formatAll selects every format on the command line.
const formatAll = "all"

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

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The --config flag replaces it before a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the active configuration.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Eventcards renders branded event graphics",
		Long:         `Eventcards renders event announcements (title, date, time, location, illustration) as PNG graphics for slides, square and wide posts, and vertical stories.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/eventcards/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.promptsCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRenderer creates a renderer from the configured asset paths.
func (c *CLI) newRenderer() *graphic.Renderer {
	fp := fonts.NewProvider(c.cfg.FontsDir, fonts.WithLogger(c.Logger))
	return graphic.New(fp, c.cfg.LogoPath, c.Logger)
}

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(
		c.newRenderer(),
		c.newCache(ctx, noCache),
		cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope()),
		c.Logger,
	)
	r.TTL = c.cfg.Cache.TTL.Duration
	if store, err := c.openHistory(ctx); err != nil {
		c.Logger.Warn("render history disabled", "err", err)
	} else {
		r.History = store
	}
	return r
}

// newCache opens the configured backend. An unreachable backend degrades to
// no caching; rendering never depends on the cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch strings.ToLower(c.cfg.Cache.Backend) {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.cfg.Cache.RedisAddr})
		if err != nil {
			c.Logger.Warn("cache disabled", "backend", config.CacheRedis, "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", config.CacheFile, "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", config.CacheFile, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// openHistory returns the MongoDB store when a URI is configured, else the
// file store in the history directory.
func (c *CLI) openHistory(ctx context.Context) (history.Store, error) {
	if c.cfg.History.MongoURI != "" {
		return history.NewMongoStore(ctx, c.cfg.History.MongoURI, c.cfg.History.Database)
	}
	dir := c.cfg.History.Dir
	if dir == "" {
		d, err := config.HistoryDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return history.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, else the
// XDG standard (~/.cache/eventcards/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list. Empty or "all"
// selects every format.
func parseFormats(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, formatAll) {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// stdout is where commands print results. Tests replace it.
var stdout io.Writer = os.Stdout

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
