package planner

import (
	"strings"
	"unicode/utf8"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/textstat"
)

// Subject is what the evaluator knows about one candidate record.
type Subject struct {
	Value        string
	Length       int
	WordCount    int
	IsPalindrome bool
}

// SubjectOf derives a Subject from a raw value.
func SubjectOf(value string) Subject {
	p := textstat.Analyze(value)
	return Subject{
		Value:        textstat.Canonical(value),
		Length:       p.Length,
		WordCount:    p.WordCount,
		IsPalindrome: p.IsPalindrome,
	}
}

// Eval reports whether s satisfies cond exactly. Compound clauses fold
// left to right with no precedence between and/or.
func Eval(cond query.Condition, s Subject) bool {
	switch n := cond.(type) {
	case query.All:
		return true
	case query.Comparison:
		return n.Op.Compare(fieldOf(s, n.Field), n.Value)
	case query.Range:
		v := fieldOf(s, n.Field)
		return v >= n.Min && v <= n.Max
	case query.Contains:
		return evalContains(n, s) != n.Neg
	case query.Qualitative:
		if !s.IsPalindrome {
			return false
		}
		if n.WordCount != nil && s.WordCount != *n.WordCount {
			return false
		}
		if n.Length != nil && s.Length != *n.Length {
			return false
		}
		return true
	case query.Compound:
		acc := false
		for i, cl := range n.Conditions {
			x := Eval(cl.Condition, s)
			switch {
			case i == 0:
				acc = x
			case cl.Op == query.BoolOr:
				acc = acc || x
			default:
				acc = acc && x
			}
		}
		return acc
	default:
		return false
	}
}

func fieldOf(s Subject, f query.Field) int {
	if f == query.FieldWordCount {
		return s.WordCount
	}
	return s.Length
}

func evalContains(n query.Contains, s Subject) bool {
	text := strings.ToLower(s.Value)
	switch n.Subtype {
	case query.SubtypeCount:
		return fieldOf(s, n.Field) >= n.Value
	case query.SubtypeCharClass, query.SubtypeLetter:
		return strings.ContainsAny(text, memberSet(n))
	case query.SubtypePositional:
		return matchPositional(text, memberSet(n), n.Position)
	default:
		return false
	}
}

// matchPositional: position N > 0 holds when text has at least N
// occurrences from set; PositionLast holds when the final rune is in set.
func matchPositional(text, set string, position int) bool {
	if position == query.PositionLast {
		r, size := utf8.DecodeLastRuneInString(text)
		return size > 0 && strings.ContainsRune(set, r)
	}
	if position <= 0 {
		return false
	}
	seen := 0
	for _, r := range text {
		if strings.ContainsRune(set, r) {
			seen++
			if seen >= position {
				return true
			}
		}
	}
	return false
}

// PostFilter keeps the items whose subject satisfies the plan's condition.
// Items are returned untouched when the plan needs no post-filter.
func PostFilter[T any](plan *Plan, items []T, subject func(T) Subject) []T {
	if plan == nil || !plan.NeedsPostFilter {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if Eval(plan.Condition, subject(it)) {
			out = append(out, it)
		}
	}
	return out
}
