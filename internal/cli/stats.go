package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.Count(cmd.Context())
			if err != nil {
				return err
			}
			newPrinter(a.out, FormatPretty).kv([][2]string{
				{"Backend", a.cfg.Backend},
				{"Strings", fmt.Sprint(n)},
			})
			return nil
		},
	}
}

func newOptimizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Run backend maintenance (ANALYZE, VACUUM)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Optimize(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.out, "optimized")
			return nil
		},
	}
}
