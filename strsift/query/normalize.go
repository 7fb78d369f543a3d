package query

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Everything except word characters, whitespace, comparison symbols and commas.
	disallowedRune = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s<>=!,]`)
)

// Normalize cleans raw query text into the canonical form the grammar
// matches against. It never fails; see NormalizeReport for the swallowed
// number-conversion error.
func Normalize(raw string) string {
	s, _ := NormalizeReport(raw)
	return s
}

// NormalizeReport is Normalize that also returns the error swallowed by the
// spelled-number step, if any. The returned text is valid either way.
func NormalizeReport(raw string) (string, error) {
	s := norm.NFKC.String(raw)
	s = cases.Fold().String(s)
	s = strings.TrimSpace(s)

	converted, convErr := ConvertSpelledNumbers(s)
	if convErr == nil {
		s = converted
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = disallowedRune.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s), convErr
}
