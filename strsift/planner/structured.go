package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

// ErrInvalidFilter is returned for malformed structured filter values.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterParams are the structured attribute filters. Unset fields do not
// constrain. The string filters accept a single item, a comma-separated
// list (any item matches) or an ampersand-separated list (all must match).
// Character counts are written "c:N".
type FilterParams struct {
	IsPalindrome *bool `json:"is_palindrome,omitempty"`

	Length    *int `json:"length,omitempty"`
	MinLength *int `json:"min_length,omitempty"`
	MaxLength *int `json:"max_length,omitempty"`

	WordCount    *int `json:"word_count,omitempty"`
	MinWordCount *int `json:"min_word_count,omitempty"`
	MaxWordCount *int `json:"max_word_count,omitempty"`

	UniqueCharacters *int `json:"unique_characters,omitempty"`

	ContainsCharacter string `json:"contains_character,omitempty"`
	StartsWith        string `json:"startswith,omitempty"`
	EndsWith          string `json:"endswith,omitempty"`

	CharacterCount    string `json:"character_count,omitempty"`
	MinCharacterCount string `json:"min_character_count,omitempty"`
	MaxCharacterCount string `json:"max_character_count,omitempty"`
}

// CompileFilter turns structured filters into a Plan with no post-filter.
func CompileFilter(schema storage.Schema, p FilterParams) (*Plan, error) {
	c := &compiler{schema: schema}
	var preds []Pred

	if p.IsPalindrome != nil {
		attr, err := c.attr(storage.AttrIsPalindrome)
		if err != nil {
			return nil, err
		}
		preds = append(preds, IsTrue{Attr: attr, Value: *p.IsPalindrome})
	}

	ints := []struct {
		attr string
		op   query.Op
		v    *int
	}{
		{storage.AttrLength, query.OpEq, p.Length},
		{storage.AttrLength, query.OpGte, p.MinLength},
		{storage.AttrLength, query.OpLte, p.MaxLength},
		{storage.AttrWordCount, query.OpEq, p.WordCount},
		{storage.AttrWordCount, query.OpGte, p.MinWordCount},
		{storage.AttrWordCount, query.OpLte, p.MaxWordCount},
		{storage.AttrUniqueCharacters, query.OpEq, p.UniqueCharacters},
	}
	for _, f := range ints {
		if f.v == nil {
			continue
		}
		if *f.v < 0 {
			return nil, fmt.Errorf("%w: %s %s %d", ErrInvalidFilter, f.attr, f.op, *f.v)
		}
		attr, err := c.attr(f.attr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, Cmp{Attr: attr, Op: f.op, Value: *f.v})
	}

	likes := []struct {
		kind LikeKind
		raw  string
	}{
		{LikeContains, p.ContainsCharacter},
		{LikePrefix, p.StartsWith},
		{LikeSuffix, p.EndsWith},
	}
	for _, f := range likes {
		if f.raw == "" {
			continue
		}
		attr, err := c.attr(storage.AttrValue)
		if err != nil {
			return nil, err
		}
		items, anyOf, err := splitList(strings.ToLower(f.raw))
		if err != nil {
			return nil, err
		}
		ps := make([]Pred, len(items))
		for i, it := range items {
			ps[i] = Like{Attr: attr, Kind: f.kind, Text: it}
		}
		preds = append(preds, joinList(ps, anyOf))
	}

	counts := []struct {
		op  query.Op
		raw string
	}{
		{query.OpEq, p.CharacterCount},
		{query.OpGte, p.MinCharacterCount},
		{query.OpLte, p.MaxCharacterCount},
	}
	for _, f := range counts {
		if f.raw == "" {
			continue
		}
		attr, err := c.attr(storage.AttrCharFreq)
		if err != nil {
			return nil, err
		}
		items, anyOf, err := splitList(stripSpace(f.raw))
		if err != nil {
			return nil, err
		}
		ps := make([]Pred, len(items))
		for i, it := range items {
			ch, n, err := parseCharCount(it)
			if err != nil {
				return nil, err
			}
			ps[i] = CharCount{Attr: attr, Char: ch, Op: f.op, Value: n}
		}
		preds = append(preds, joinList(ps, anyOf))
	}

	pred := AllOf(preds...)
	c.step("FILTER %s", pred)
	return &Plan{
		Condition:    query.All{},
		Pushdown:     pred,
		ExplainSteps: c.explainSteps,
	}, nil
}

// splitList separates raw into items. A comma list means any item may
// match and wins over an ampersand list. Lists drop all whitespace; a
// single item is kept verbatim.
func splitList(raw string) (items []string, anyOf bool, err error) {
	var sep string
	switch {
	case strings.Contains(raw, ","):
		sep, anyOf = ",", true
	case strings.Contains(raw, "&"):
		sep = "&"
	default:
		return []string{raw}, false, nil
	}
	items = strings.Split(stripSpace(raw), sep)
	for _, it := range items {
		if it == "" {
			return nil, false, fmt.Errorf("%w: empty item in %q", ErrInvalidFilter, raw)
		}
	}
	return items, anyOf, nil
}

func joinList(ps []Pred, anyOf bool) Pred {
	if anyOf {
		return AnyOf(ps...)
	}
	return AllOf(ps...)
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// parseCharCount reads "c:N".
func parseCharCount(item string) (string, int, error) {
	r, size := utf8.DecodeRuneInString(item)
	if size == 0 || r == utf8.RuneError || len(item) <= size+1 || item[size] != ':' {
		return "", 0, fmt.Errorf("%w: character count %q (want c:N)", ErrInvalidFilter, item)
	}
	digits := item[size+1:]
	for _, d := range digits {
		if !unicode.IsDigit(d) {
			return "", 0, fmt.Errorf("%w: character count %q (want c:N)", ErrInvalidFilter, item)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("%w: character count %q: %v", ErrInvalidFilter, item, err)
	}
	return strings.ToLower(string(r)), n, nil
}
