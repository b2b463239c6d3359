package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/internal/server"
	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/config"
	"github.com/mhuels/gridpack/pkg/engine"
	"github.com/mhuels/gridpack/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard layout HTTP API",
		Long: `Run the dashboard layout HTTP API.

The server exposes dashboard CRUD, widget placement, reflow, and
preview rendering under /api. Storage backend, cache backend, and
listen address come from an optional TOML config file; flags override
the file. Without a config file dashboards live in memory and are lost
on exit.

Endpoints:
  GET    /healthz
  GET    /api/dashboards
  POST   /api/dashboards
  GET    /api/dashboards/{id}
  PUT    /api/dashboards/{id}
  DELETE /api/dashboards/{id}
  POST   /api/dashboards/{id}/widgets
  DELETE /api/dashboards/{id}/widgets/{widgetID}
  POST   /api/dashboards/{id}/reflow
  GET    /api/dashboards/{id}/preview.svg`,
		Example: `  gridpack serve
  gridpack serve --config gridpack.toml
  gridpack serve --addr :9090 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching (overrides config)")

	return cmd
}

// runServe wires storage, cache, and engine together and blocks until
// the context is cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, configPath, addr string, noCache bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if noCache {
		cfg.Cache.Backend = "none"
	}

	st, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN, cfg.Store.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cch, err := c.newCacheFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	runner := engine.NewRunner(cch, nil, c.Logger)
	defer runner.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"store", cfg.Store.Backend,
		"cache", cfg.Cache.Backend)

	return server.New(cfg, st, runner, c.Logger).Serve(ctx)
}

// newCacheFromConfig builds the cache backend the config names.
func (c *CLI) newCacheFromConfig(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	default: // file
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}
