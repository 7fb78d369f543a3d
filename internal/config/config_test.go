package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "strsift.db", cfg.SQLite.Path)
	assert.Equal(t, "sqlite", cfg.SQLite.Driver)
	assert.Equal(t, "strsift", cfg.Postgres.Schema)
	assert.Equal(t, 256, cfg.Query.MaxLength)
	assert.Equal(t, 250*time.Millisecond, cfg.Query.ParseTimeout)
	assert.Equal(t, 4, cfg.Query.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STRSIFT_QUERY_MAX_LENGTH", "64")
	t.Setenv("STRSIFT_QUERY_PARSE_TIMEOUT", "1s")
	t.Setenv("STRSIFT_LOG_FORMAT", "json")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Query.MaxLength)
	assert.Equal(t, time.Second, cfg.Query.ParseTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STRSIFT_SQLITE_PATH=from-dotenv.db\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("STRSIFT_SQLITE_PATH") })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.SQLite.Path)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: postgres
postgres:
  dsn: postgres://localhost/strsift
  schema: sift
query:
  concurrency: 8
`), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Backend)
	assert.Equal(t, "postgres://localhost/strsift", cfg.Postgres.DSN)
	assert.Equal(t, "sift", cfg.Postgres.Schema)
	assert.Equal(t, 8, cfg.Query.Concurrency)

	_, err = Load(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Backend: "sqlite",
			SQLite:  SQLiteConfig{Path: "x.db", Driver: "sqlite"},
			Query:   QueryConfig{MaxLength: 1, ParseTimeout: time.Millisecond, MaxSteps: 1, Concurrency: 1},
			Log:     LogConfig{Level: "info", Format: "json"},
		}
	}
	base := valid()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "redis" }},
		{"missing sqlite path", func(c *Config) { c.SQLite.Path = "" }},
		{"unknown driver", func(c *Config) { c.SQLite.Driver = "cgo" }},
		{"postgres without dsn", func(c *Config) { c.Backend = "postgres"; c.Postgres.Schema = "s" }},
		{"zero max length", func(c *Config) { c.Query.MaxLength = 0 }},
		{"zero timeout", func(c *Config) { c.Query.ParseTimeout = 0 }},
		{"zero steps", func(c *Config) { c.Query.MaxSteps = 0 }},
		{"zero concurrency", func(c *Config) { c.Query.Concurrency = 0 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
