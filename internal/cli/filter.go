package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/strsift/strsift/strsift"
)

var intFilters = []struct {
	flag  string
	usage string
	field func(*strsift.FilterParams) **int
}{
	{"length", "exact length", func(p *strsift.FilterParams) **int { return &p.Length }},
	{"min-length", "minimum length", func(p *strsift.FilterParams) **int { return &p.MinLength }},
	{"max-length", "maximum length", func(p *strsift.FilterParams) **int { return &p.MaxLength }},
	{"word-count", "exact word count", func(p *strsift.FilterParams) **int { return &p.WordCount }},
	{"min-word-count", "minimum word count", func(p *strsift.FilterParams) **int { return &p.MinWordCount }},
	{"max-word-count", "maximum word count", func(p *strsift.FilterParams) **int { return &p.MaxWordCount }},
	{"unique-characters", "exact number of distinct characters", func(p *strsift.FilterParams) **int { return &p.UniqueCharacters }},
}

var stringFilters = []struct {
	flag  string
	usage string
	field func(*strsift.FilterParams) *string
}{
	{"contains-character", "characters that must appear: a,b (any) or a&b (all)", func(p *strsift.FilterParams) *string { return &p.ContainsCharacter }},
	{"starts-with", "prefixes: a,b (any) or a&b (all)", func(p *strsift.FilterParams) *string { return &p.StartsWith }},
	{"ends-with", "suffixes: a,b (any) or a&b (all)", func(p *strsift.FilterParams) *string { return &p.EndsWith }},
	{"character-count", "exact occurrences, c:N", func(p *strsift.FilterParams) *string { return &p.CharacterCount }},
	{"min-character-count", "minimum occurrences, c:N", func(p *strsift.FilterParams) *string { return &p.MinCharacterCount }},
	{"max-character-count", "maximum occurrences, c:N", func(p *strsift.FilterParams) *string { return &p.MaxCharacterCount }},
}

func newFilterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter stored strings by attribute",
		Long:  "Every given flag must hold. Flags left unset do not constrain the result.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			params, err := filterParams(cmd.Flags())
			if err != nil {
				return err
			}
			start := time.Now()
			res, err := a.store.Filter(cmd.Context(), params, searchOptions(cmd))
			if err != nil {
				return err
			}
			return newPrinter(a.out, format).result("", res, time.Since(start))
		},
	}
	cmd.Flags().Bool("palindrome", false, "only palindromes (--palindrome=false for non-palindromes)")
	for _, f := range intFilters {
		cmd.Flags().Int(f.flag, 0, f.usage)
	}
	for _, f := range stringFilters {
		cmd.Flags().String(f.flag, "", f.usage)
	}
	addFormatFlag(cmd)
	addSearchFlags(cmd)
	return cmd
}

// filterParams collects the flags set on fs. Unset flags stay nil or empty
// so they do not constrain the filter.
func filterParams(fs *pflag.FlagSet) (strsift.FilterParams, error) {
	var p strsift.FilterParams
	if fs.Changed("palindrome") {
		b, err := fs.GetBool("palindrome")
		if err != nil {
			return p, err
		}
		p.IsPalindrome = &b
	}
	for _, f := range intFilters {
		if !fs.Changed(f.flag) {
			continue
		}
		n, err := fs.GetInt(f.flag)
		if err != nil {
			return p, err
		}
		*f.field(&p) = &n
	}
	for _, f := range stringFilters {
		s, err := fs.GetString(f.flag)
		if err != nil {
			return p, err
		}
		*f.field(&p) = s
	}
	return p, nil
}
