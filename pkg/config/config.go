// Package config loads gridpack configuration from TOML files.
//
// Configuration is optional: every field has a working default, so the
// CLI and server run with no file at all. When a path is given (via
// --config or a well-known location), values from the file override the
// defaults section by section.
//
// # File Format
//
//	[grid]
//	cols = 12
//
//	[server]
//	addr = ":8080"
//	read_timeout = 15    # seconds
//	write_timeout = 30   # seconds
//	shutdown_timeout = 10
//
//	[store]
//	backend = "sqlite"   # memory | sqlite | mongo
//	dsn = "data/gridpack.db"
//
//	[cache]
//	backend = "file"     # file | redis | none
//	dir = ""             # empty uses the user cache dir
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/mhuels/gridpack/pkg/errors"
)

// Config is the root configuration document.
type Config struct {
	Grid   Grid   `toml:"grid"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Cache  Cache  `toml:"cache"`
}

// Grid configures the layout engine.
type Grid struct {
	// Cols is the column count used when a dashboard does not carry its
	// own.
	Cols int `toml:"cols"`
}

// Server configures the HTTP API. Timeouts are in seconds.
type Server struct {
	Addr            string `toml:"addr"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
}

// Store configures dashboard persistence.
type Store struct {
	// Backend selects the storage implementation: memory, sqlite, or
	// mongo.
	Backend string `toml:"backend"`
	// DSN is the sqlite file path or the mongo connection URI.
	DSN string `toml:"dsn"`
	// Database names the mongo database. Ignored by other backends.
	Database string `toml:"database"`
}

// Cache configures layout and preview caching.
type Cache struct {
	// Backend selects the cache implementation: file, redis, or none.
	Backend string `toml:"backend"`
	// Dir is the file cache directory. Empty uses the user cache dir.
	Dir string `toml:"dir"`
	// RedisURL is the redis connection URL, e.g.
	// redis://localhost:6379/0.
	RedisURL string `toml:"redis_url"`
}

// Backend names accepted by Store and Cache sections.
var (
	ValidStoreBackends = map[string]bool{"memory": true, "sqlite": true, "mongo": true}
	ValidCacheBackends = map[string]bool{"file": true, "redis": true, "none": true}
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Grid: Grid{Cols: 12},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15,
			WriteTimeout:    30,
			ShutdownTimeout: 10,
		},
		Store: Store{Backend: "memory"},
		Cache: Cache{Backend: "file"},
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// returns the defaults unchanged. The result is always validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Decoding into the defaulted struct keeps defaults for any field the
	// file does not mention.
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints. Default() always validates.
func (c *Config) Validate() error {
	if c.Grid.Cols <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.cols must be positive, got %d", c.Grid.Cols)
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts cannot be negative")
	}

	if !ValidStoreBackends[c.Store.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store.backend %q (use memory, sqlite, or mongo)", c.Store.Backend)
	}
	if c.Store.Backend != "memory" && c.Store.DSN == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.dsn is required for the %s backend", c.Store.Backend)
	}

	if !ValidCacheBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q (use file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}

	return nil
}
