// Package cli implements the linkrank command-line interface.
//
// The CLI ranks the nodes of link graphs with PageRank, computes
// undirected centrality measures, renders node-link diagrams, and serves
// the same operations over HTTP. It is built with cobra and logs through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - rank: PageRank scores for a JSON or TOML graph file
//   - centrality: degree and closeness centrality
//   - render: DOT, SVG or PNG diagrams
//   - serve: the HTTP API
//   - example: the built-in five-site sports graph
//   - cache: manage the result cache
//
// # Configuration
//
// Settings are read, in increasing priority, from built-in defaults, a TOML
// config file, LINKRANK_* environment variables, and command-line flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/martialmarel/linkrank/pkg/buildinfo"
	"github.com/martialmarel/linkrank/pkg/cache"
	"github.com/martialmarel/linkrank/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "linkrank"

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
	Config Config

	configPath string
	verbose    bool
	getenv     func(string) string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Linkrank scores the nodes of link graphs",
		Long:          `Linkrank ranks the pages of a link graph with PageRank, computes centrality measures, and renders the graph as a node-link diagram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/linkrank/config.toml)")

	root.AddCommand(c.rankCommand())
	root.AddCommand(c.centralityCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers the config file and environment over the defaults.
func (c *CLI) loadConfig() error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		p, err := configPath(c.getenv)
		if err != nil {
			c.Logger.Debug("no config directory", "error", err)
			return applyEnv(&c.Config, c.getenv)
		}
		path = p
	}

	cfg, err := loadConfigFile(path, explicit)
	if err != nil {
		return err
	}
	if err := applyEnv(&cfg, c.getenv); err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "damping", cfg.Damping, "iterations", cfg.Iterations)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ttl, err := c.Config.ttl()
	if err != nil {
		return nil, err
	}
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, c.Logger)
	r.TTL = ttl
	return r, nil
}

// newCache picks the cache backend: none, Redis when a URL is configured,
// or the on-disk cache.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.RedisURL != "" {
		rc, err := cache.NewRedisCache(c.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return cache.NewScoped(rc, appName+":"), nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/linkrank/).
func cacheDir(getenv func(string) string) (string, error) {
	if cacheHome := getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file (~/.config/linkrank/config.toml).
func configPath(getenv func(string) string) (string, error) {
	if configHome := getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
