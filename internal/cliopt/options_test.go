package cliopt

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindGlobalFlags(t *testing.T) {
	v := viper.New()
	v.SetDefault("sqlite.path", "default.db")
	v.SetDefault("log.level", "info")

	fs := pflag.NewFlagSet("strsift", pflag.ContinueOnError)
	require.NoError(t, BindGlobalFlags(fs, v))
	require.NoError(t, fs.Parse([]string{"--sqlite-path", "flag.db", "--config", "x.yaml"}))

	assert.Equal(t, "flag.db", v.GetString("sqlite.path"))
	assert.Equal(t, "info", v.GetString("log.level"), "unset flags leave the key alone")

	cfg, err := fs.GetString(ConfigFlag)
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", cfg)
	assert.False(t, v.IsSet(ConfigFlag))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "postgres.dsn", Key("pg-dsn"))
	assert.Equal(t, "log.format", Key("log-format"))
	assert.Empty(t, Key("limit"))
}
