package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <value>",
		Short: "Show a stored string and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return newPrinter(a.out, FormatJSON).json(rec)
		},
	}
}
