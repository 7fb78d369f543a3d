package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <value>",
		Short: "Delete a stored string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.store.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok {
				_, _ = fmt.Fprintln(a.out, "deleted")
			} else {
				_, _ = fmt.Fprintln(a.out, "not found")
			}
			return nil
		},
	}
}
