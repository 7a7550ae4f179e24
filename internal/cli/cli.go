// Package cli implements the gittrophy command-line interface.
//
// The root command builds a trophy from one or more git repositories:
//
//	gittrophy ~/src/project --year 2024 --text "2024" --font FiraCode.ttf
//
// Subcommands:
//   - render: build a trophy from a saved heightmap JSON file
//   - cache: inspect or clear the histogram cache
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gittrophy/pkg/buildinfo"
	"github.com/matzehuels/gittrophy/pkg/cache"
	"github.com/matzehuels/gittrophy/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "gittrophy"

// cacheScope prefixes every cache key. Bump it when the cached entry layout changes.
const cacheScope = "v1:"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Env    Env
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.buildCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		c.Env = env
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheScope)
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Env.NoCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns GITTROPHY_CACHE_DIR or the XDG cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Env.CacheDir != "" {
		return c.Env.CacheDir, nil
	}
	return cache.DefaultDir()
}
