// Package cli implements the gridpack command-line interface.
//
// The CLI operates on dashboard documents: creating them, placing widgets
// onto the column grid, re-flowing stale layouts, and rendering wireframe
// previews. The same operations are available over HTTP via the serve
// command, and push/pull sync local documents against a running server.
//
// # Commands
//
// The main commands are:
//   - new: Create a dashboard document
//   - place: Place widgets into the first free gaps
//   - reflow: Recompute every widget position from scratch
//   - preview: Render txt, SVG, PNG, or PDF wireframes
//   - inspect: Browse a dashboard interactively in the terminal
//   - serve: Expose the dashboard API over HTTP
//   - push/pull: Sync documents with a gridpack server
//   - cache: Manage the layout cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/buildinfo"
	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/engine"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridpack"

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
	root := &cobra.Command{
		Use:          "gridpack",
		Short:        "Gridpack lays out dashboard widgets on a column grid",
		Long:         `Gridpack is a toolkit for dashboard layout documents: it packs widgets onto a fixed-column grid with a deterministic first-fit strategy, renders wireframe previews, and serves the same operations over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.reflowCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.gapsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.remoteCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.pullCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates an engine runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*engine.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return engine.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/gridpack/).
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

// configDir returns the config directory (~/.config/gridpack/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies CLI-specific defaults on top of engine defaults.
func setCLIDefaults(opts *engine.Options) {
	opts.SetRenderDefaults()
	// Terminal workflows want the grid visible (engine default is off).
	opts.ShowGrid = true
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{engine.FormatSVG}
	}
	return strings.Split(s, ",")
}
