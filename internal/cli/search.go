package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/strsift/strsift/strsift"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query> [query...]",
		Short: "Filter stored strings with plain-English queries",
		Long:  "Each argument is one query. Several queries run concurrently and are printed in argument order.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			opts := searchOptions(cmd)
			p := newPrinter(a.out, format)

			start := time.Now()
			if len(args) == 1 {
				res, err := a.store.Search(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return p.result("", res, time.Since(start))
			}

			results, err := a.store.SearchMany(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			dur := time.Since(start)
			if format == FormatJSON {
				return p.json(results)
			}
			for i, res := range results {
				if err := p.result("== "+args[i], res, dur); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	addSearchFlags(cmd)
	return cmd
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", 0, "maximum strings to return (0 = all)")
	cmd.Flags().Bool("explain", false, "include the compiled SQL and post-filter")
}

func searchOptions(cmd *cobra.Command) strsift.SearchOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	explain, _ := cmd.Flags().GetBool("explain")
	return strsift.SearchOptions{Limit: limit, Explain: explain}
}

func newExplainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Show how a query is interpreted without running it",
		Long:  "Arguments are joined with spaces into a single query.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			e, err := a.store.Explain(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return newPrinter(a.out, format).explanation(e)
		},
	}
	addFormatFlag(cmd)
	return cmd
}
