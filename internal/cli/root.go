// Package cli implements the strsift command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strsift/strsift/internal/cliopt"
	"github.com/strsift/strsift/internal/config"
	"github.com/strsift/strsift/internal/logging"
	"github.com/strsift/strsift/strsift"
	"github.com/strsift/strsift/strsift/metrics"
	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/storage/postgres"
	"github.com/strsift/strsift/strsift/storage/sqlite"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	store    *strsift.Store
	out      io.Writer
	errOut   io.Writer
}

// Execute runs the CLI with argv and returns an exit code.
func Execute(argv []string) int {
	return run(argv, os.Stdout, os.Stderr)
}

func run(argv []string, stdout, stderr io.Writer) int {
	root, a := newRoot(stdout, stderr)
	// PersistentPostRunE is skipped when a command fails.
	defer a.close()
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if strsift.IsKind(err, strsift.ErrQueryParse) {
			return 2
		}
		return 1
	}
	return 0
}

// NewRootCommand returns the strsift command with all subcommands wired in.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd, _ := newRoot(stdout, stderr)
	return cmd
}

func newRoot(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{
		v:      viper.New(),
		log:    zerolog.Nop(),
		out:    stdout,
		errOut: stderr,
	}

	cmd := &cobra.Command{
		Use:           "strsift",
		Short:         "Store strings and filter them with plain-English queries",
		Long:          rootLong,
		Example:       rootExample,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// Flag names are fixed, so binding cannot fail.
	_ = cliopt.BindGlobalFlags(cmd.PersistentFlags(), a.v)

	cmd.AddCommand(
		newPutCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newFilterCmd(a),
		newSearchCmd(a),
		newExplainCmd(a),
		newStatsCmd(a),
		newOptimizeCmd(a),
	)
	return cmd, a
}

func (a *app) open(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString(cliopt.ConfigFlag)
	cfg, err := config.Load(a.v, cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(a.errOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.log = logger
	a.registry = prometheus.NewRegistry()

	opts := strsift.DefaultOptions()
	opts.Parse = query.Options{
		MaxQueryLength: cfg.Query.MaxLength,
		ParseTimeout:   cfg.Query.ParseTimeout,
		MaxSteps:       cfg.Query.MaxSteps,
	}
	opts.SearchConcurrency = cfg.Query.Concurrency
	opts.Logger = &a.log
	opts.Metrics = metrics.New(a.registry)

	store, err := strsift.OpenOrCreate(cmd.Context(), adapterFor(cfg), opts)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func adapterFor(cfg *config.Config) storage.Adapter {
	if cfg.Backend == string(storage.BackendPostgres) {
		return postgres.New(cfg.Postgres.DSN, cfg.Postgres.Schema)
	}
	return sqlite.NewWithDriver(ResolveSQLitePath(cfg.SQLite.Path), cfg.SQLite.Driver)
}
