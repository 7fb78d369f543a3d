package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/strsift/strsift/strsift"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatValues OutputFormat = "values"
	FormatJSON   OutputFormat = "json"
)

// ParseOutputFormat validates a --format value
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatPretty, FormatValues, FormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want pretty, values or json)", s)
	}
}

// printer renders command results in one output format.
type printer struct {
	format OutputFormat
	w      io.Writer
}

func newPrinter(w io.Writer, format OutputFormat) *printer {
	return &printer{format: format, w: w}
}

// json marshals v as indented JSON.
func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows using tabwriter. header is the first row.
func (p *printer) table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// kv prints a key-value detail view.
func (p *printer) kv(pairs [][2]string) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for _, pair := range pairs {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", pair[0], pair[1])
	}
	_ = tw.Flush()
}

func (p *printer) records(recs []strsift.Record) {
	if p.format == FormatValues {
		for _, r := range recs {
			_, _ = fmt.Fprintln(p.w, r.Value)
		}
		return
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.Value,
			strconv.Itoa(r.Properties.Length),
			strconv.Itoa(r.Properties.WordCount),
			strconv.Itoa(r.Properties.UniqueCharacters),
			strconv.FormatBool(r.Properties.IsPalindrome),
		})
	}
	p.table([]string{"VALUE", "LENGTH", "WORDS", "UNIQUE", "PALINDROME"}, rows)
}

// result prints one search or filter result. label heads the pretty form
// when several queries are printed together.
func (p *printer) result(label string, res *strsift.SearchResult, dur time.Duration) error {
	switch p.format {
	case FormatJSON:
		return p.json(res)
	case FormatValues:
		p.records(res.Records)
		return nil
	}
	if label != "" {
		_, _ = fmt.Fprintf(p.w, "%s\n", label)
	}
	_, _ = fmt.Fprintf(p.w, "Found %d strings in %dms\n", res.Count, dur.Milliseconds())
	if res.Count > 0 {
		p.records(res.Records)
	}
	if res.Explain != nil {
		_, _ = fmt.Fprintln(p.w)
		return p.explanation(res.Explain)
	}
	return nil
}

func (p *printer) explanation(e *strsift.Explanation) error {
	if p.format == FormatJSON {
		return p.json(e)
	}
	var pairs [][2]string
	if e.Normalized != "" {
		pairs = append(pairs, [2]string{"Normalized", e.Normalized})
	}
	if e.Condition != nil {
		b, err := json.Marshal(e.Condition)
		if err != nil {
			return err
		}
		pairs = append(pairs, [2]string{"Condition", string(b)})
	}
	pairs = append(pairs,
		[2]string{"Pushdown", e.Pushdown},
		[2]string{"SQL", e.SQL},
		[2]string{"Args", fmt.Sprint(e.Args)},
	)
	post := "none"
	if n := len(e.PostFilter); n > 0 {
		post = fmt.Sprintf("%d positional condition(s), checked per row", n)
	}
	pairs = append(pairs, [2]string{"Post-filter", post})
	p.kv(pairs)
	for _, s := range e.Steps {
		_, _ = fmt.Fprintf(p.w, "  - %s\n", s)
	}
	return nil
}
