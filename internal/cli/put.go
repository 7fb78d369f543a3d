package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newPutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put [value...]",
		Short: "Store strings",
		Long:  "Store each argument as a string. With --stdin, every non-blank input line is stored as well. All values are stored in one transaction; values already stored are reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromStdin, _ := cmd.Flags().GetBool("stdin")
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			values := args
			if fromStdin {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				values = append(values, lines...)
			}
			if len(values) == 0 {
				return fmt.Errorf("provide values as arguments or with --stdin")
			}

			res, err := a.store.PutMany(cmd.Context(), values)
			if err != nil {
				return err
			}
			for _, v := range res.Skipped {
				a.log.Warn().Str("value", v).Msg("already stored, skipped")
			}

			p := newPrinter(a.out, format)
			switch format {
			case FormatJSON:
				return p.json(res)
			case FormatValues:
				p.records(res.Stored)
			default:
				_, _ = fmt.Fprintf(a.out, "stored %d, skipped %d\n", len(res.Stored), len(res.Skipped))
			}
			return nil
		},
	}
	cmd.Flags().Bool("stdin", false, "also read values from stdin, one per line")
	addFormatFlag(cmd)
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", string(FormatPretty), "output format: pretty|values|json")
}

func formatFlag(cmd *cobra.Command) (OutputFormat, error) {
	s, _ := cmd.Flags().GetString("format")
	return ParseOutputFormat(s)
}
