package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhuels/gridpack/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridpack.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Grid.Cols != 12 || cfg.Server.Addr != ":8080" || cfg.Store.Backend != "memory" {
		t.Errorf("defaults = cols %d, addr %q, store %q", cfg.Grid.Cols, cfg.Server.Addr, cfg.Store.Backend)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[grid]
cols = 8

[server]
addr = ":9090"
read_timeout = 5

[store]
backend = "sqlite"
dsn = "data/test.db"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/1"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid.Cols != 8 {
		t.Errorf("Cols = %d, want 8", cfg.Grid.Cols)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.ReadTimeout != 5 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// Fields the file omits keep their defaults.
	if cfg.Server.WriteTimeout != 30 || cfg.Server.ShutdownTimeout != 10 {
		t.Errorf("omitted timeouts = %d/%d, want 30/10", cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.DSN != "data/test.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[grid\ncols = 8")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() of malformed TOML should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cols", func(c *Config) { c.Grid.Cols = 0 }},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -1 }},
		{"unknown store backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"sqlite without dsn", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"mongo without dsn", func(c *Config) { c.Store.Backend = "mongo" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "cassandra"
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown backend should fail")
	}
}
