// Package cli implements the bioguard command-line interface.
//
// This package provides commands for exporting the flight/lineage graph as
// node/link JSON, serving the flight-routes dashboard, rendering the
// architecture diagrams, and managing the result cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - export: Build the graph from OpenFlights data and write node/link JSON
//   - dashboard: Serve or export the flight-routes dashboard
//   - diagram: Render the architecture diagram set
//   - archive: Store and retrieve export documents in MongoDB
//   - cache: Manage the result cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tanzeel291994/HGT-BioGuard/pkg/buildinfo"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/cache"
	"github.com/tanzeel291994/HGT-BioGuard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bioguard"
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
	Config *Config
}

// New creates a new CLI instance with a default logger. The config file is
// loaded lazily on first use so that commands which never touch it (for
// example completion) do not fail on a broken config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "bioguard",
		Short:        "Bioguard visualizes viral lineage spread over flight networks",
		Long:         `Bioguard is a CLI tool for a research pipeline that models viral lineage spread over the international flight network: it samples the heterogeneous flight/lineage graph into node/link JSON, serves an interactive flight-routes dashboard, and renders the system's architecture diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.dashboardCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded config, loading it on first call.
func (c *CLI) config() *Config {
	if c.Config == nil {
		cfg, err := LoadConfig("")
		if err != nil {
			c.Logger.Warn("ignoring config file", "error", err)
			cfg = &Config{}
		}
		c.Config = cfg
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A redis_url in the
// config selects the shared Redis backend; otherwise results land in the
// local file cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.config().RedisURL; url != "" {
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bioguard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
