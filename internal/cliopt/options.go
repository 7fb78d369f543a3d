// Package cliopt declares the global flags shared by every strsift command
// and binds them to configuration keys.
//
// It is separate from cli so commands and tests can bind flags without
// building the whole command tree.
package cliopt

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigFlag names the flag holding an explicit config file path. It is
// read before viper is loaded, so it is not bound to a key.
const ConfigFlag = "config"

// binding maps a global flag to the config key it overrides.
type binding struct {
	flag  string
	key   string
	value string
	usage string
}

var bindings = []binding{
	{"backend", "backend", "sqlite", "storage backend: sqlite|postgres"},
	{"sqlite-path", "sqlite.path", "strsift.db", "sqlite database file, or a directory to hold strsift.db"},
	{"sqlite-driver", "sqlite.driver", "sqlite", "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)"},
	{"pg-dsn", "postgres.dsn", "", "postgres DSN"},
	{"pg-schema", "postgres.schema", "strsift", "postgres schema holding the store"},
	{"log-level", "log.level", "info", "log level: debug|info|warn|error"},
	{"log-format", "log.format", "console", "log format: console|json"},
}

// BindGlobalFlags declares the global flags on fs and binds each one to
// its key on v. A flag only overrides the key when set on the command line.
func BindGlobalFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String(ConfigFlag, "", "config file (default: strsift.yaml in ., ./config or /etc/strsift)")
	for _, b := range bindings {
		fs.String(b.flag, b.value, b.usage)
		if err := v.BindPFlag(b.key, fs.Lookup(b.flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", b.flag, err)
		}
	}
	return nil
}

// Key returns the config key bound to flag, or "" when flag is not global.
func Key(flag string) string {
	for _, b := range bindings {
		if b.flag == flag {
			return b.key
		}
	}
	return ""
}
