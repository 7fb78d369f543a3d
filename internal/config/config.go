// Package config loads strsift settings from defaults, an optional YAML
// file, a .env file, STRSIFT_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full strsift configuration
type Config struct {
	Backend  string         `mapstructure:"backend"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Query    QueryConfig    `mapstructure:"query"`
	Log      LogConfig      `mapstructure:"log"`
}

type SQLiteConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
}

// QueryConfig bounds natural-language query processing
type QueryConfig struct {
	MaxLength    int           `mapstructure:"max_length"`
	ParseTimeout time.Duration `mapstructure:"parse_timeout"`
	MaxSteps     int           `mapstructure:"max_steps"`
	Concurrency  int           `mapstructure:"concurrency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", "sqlite")
	v.SetDefault("sqlite.path", "strsift.db")
	v.SetDefault("sqlite.driver", "sqlite")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.schema", "strsift")
	v.SetDefault("query.max_length", 256)
	v.SetDefault("query.parse_timeout", "250ms")
	v.SetDefault("query.max_steps", 200000)
	v.SetDefault("query.concurrency", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration into a Config. configFile names an explicit
// YAML file; when empty, strsift.yaml is searched for in the usual places
// and its absence is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	SetDefaults(v)
	v.SetEnvPrefix("STRSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("strsift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/strsift")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory when present.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Backend {
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required")
		}
		switch c.SQLite.Driver {
		case "sqlite", "sqlite3":
		default:
			return fmt.Errorf("sqlite.driver must be sqlite or sqlite3, got %q", c.SQLite.Driver)
		}
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres backend")
		}
		if c.Postgres.Schema == "" {
			return fmt.Errorf("postgres.schema is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite or postgres)", c.Backend)
	}

	if c.Query.MaxLength <= 0 {
		return fmt.Errorf("query.max_length must be positive")
	}
	if c.Query.ParseTimeout <= 0 {
		return fmt.Errorf("query.parse_timeout must be positive")
	}
	if c.Query.MaxSteps <= 0 {
		return fmt.Errorf("query.max_steps must be positive")
	}
	if c.Query.Concurrency <= 0 {
		return fmt.Errorf("query.concurrency must be positive")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
