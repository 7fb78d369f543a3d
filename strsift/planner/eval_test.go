package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

func TestEvalPositional(t *testing.T) {
	eve := SubjectOf("Eve")

	assert.True(t, Eval(positional(query.ClassVowel, "", 2, false), eve), "second vowel")
	assert.False(t, Eval(positional(query.ClassVowel, "", 3, false), eve), "no third vowel")
	assert.True(t, Eval(positional("", "e", query.PositionLast, false), eve))
	assert.False(t, Eval(positional(query.ClassConsonant, "", query.PositionLast, false), eve))
	assert.True(t, Eval(positional("", "v", 1, false), eve))
	assert.False(t, Eval(positional("", "e", 2, true), eve), "negated second e")
	assert.True(t, Eval(positional("", "e", 3, true), eve), "negated third e")
	assert.False(t, Eval(positional("", "e", query.PositionLast, false), SubjectOf("")))
}

func TestEvalLeaves(t *testing.T) {
	s := SubjectOf("Never odd or even")
	two := 2

	tests := []struct {
		cond query.Condition
		want bool
	}{
		{query.All{}, true},
		{query.Comparison{Field: query.FieldLength, Op: query.OpEq, Value: 14}, true},
		{query.Comparison{Field: query.FieldWordCount, Op: query.OpLt, Value: 4}, false},
		{query.Range{Field: query.FieldWordCount, Min: 4, Max: 4}, true},
		{query.Range{Field: query.FieldLength, Min: 15, Max: 999}, false},
		{query.Contains{Subtype: query.SubtypeCount, Field: query.FieldWordCount, Value: 4}, true},
		{query.Contains{Subtype: query.SubtypeCount, Field: query.FieldWordCount, Value: 5}, false},
		{query.Contains{Subtype: query.SubtypeLetter, Letter: "v"}, true},
		{query.Contains{Neg: true, Subtype: query.SubtypeLetter, Letter: "z"}, true},
		{query.Contains{Subtype: query.SubtypeCharClass, Class: query.ClassVowel}, true},
		{query.Qualitative{Qual: query.QualPalindrome}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Eval(tt.cond, s), "%#v", tt.cond)
	}

	racecar := SubjectOf("racecar")
	assert.True(t, Eval(query.Qualitative{Qual: query.QualPalindrome}, racecar))
	assert.False(t, Eval(query.Qualitative{Qual: query.QualPalindrome, WordCount: &two}, racecar))
}

func TestEvalFoldsLeftToRight(t *testing.T) {
	s := SubjectOf("abc")
	has := func(l string) query.Contains {
		return query.Contains{Subtype: query.SubtypeLetter, Letter: l}
	}
	// a OR z AND y is (a OR z) AND y, not a OR (z AND y).
	cond := query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: has("a")},
		{Op: query.BoolOr, Condition: has("z")},
		{Op: query.BoolAnd, Condition: has("y")},
	})
	assert.False(t, Eval(cond, s))

	cond = query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: has("z")},
		{Op: query.BoolAnd, Condition: has("y")},
		{Op: query.BoolOr, Condition: has("b")},
	})
	assert.True(t, Eval(cond, s))
}

func TestPostFilter(t *testing.T) {
	values := []string{"eve", "ever", "level", "sky", "queue"}
	cond := query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: positional(query.ClassVowel, "", 3, false)},
		{Op: query.BoolOr, Condition: positional("", "y", query.PositionLast, false)},
	})
	plan, err := Compile(storage.StringsSchema, cond)
	require.NoError(t, err)
	require.True(t, plan.NeedsPostFilter)

	got := PostFilter(plan, values, SubjectOf)
	assert.Equal(t, []string{"sky", "queue"}, got)
	assert.Len(t, values, 5, "input is not modified")

	plain, err := Compile(storage.StringsSchema, query.All{})
	require.NoError(t, err)
	assert.Equal(t, values, PostFilter(plain, values, SubjectOf))
}

// Pushdown relaxation must never drop an exact match.
func TestPushdownIsSuperset(t *testing.T) {
	values := []string{"eve", "ever", "level", "sky", "queue", "rhythm", "a", "banana split"}
	conds := []query.Condition{
		positional(query.ClassVowel, "", 2, false),
		positional("", "e", query.PositionLast, false),
		positional(query.ClassConsonant, "", 3, true),
		query.NewCompound([]query.Clause{
			{Op: query.BoolAnd, Condition: query.Comparison{Field: query.FieldLength, Op: query.OpGt, Value: 3}},
			{Op: query.BoolAnd, Condition: positional("", "a", 2, false)},
		}),
	}
	for _, cond := range conds {
		plan, err := Compile(storage.StringsSchema, cond)
		require.NoError(t, err)
		for _, v := range values {
			s := SubjectOf(v)
			if Eval(cond, s) {
				assert.True(t, evalPred(plan.Pushdown, s), "%q dropped by %s", v, plan.Pushdown)
			}
		}
	}
}

// evalPred interprets a pushdown predicate in memory.
func evalPred(p Pred, s Subject) bool {
	switch p := p.(type) {
	case True:
		return true
	case Cmp:
		return p.Op.Compare(attrOf(s, p.Attr), p.Value)
	case Between:
		v := attrOf(s, p.Attr)
		return v >= p.Min && v <= p.Max
	case IsTrue:
		return s.IsPalindrome == p.Value
	case ContainsAny:
		for _, r := range p.Chars {
			for _, c := range s.Value {
				if r == c {
					return true
				}
			}
		}
		return false
	case Not:
		return !evalPred(p.Inner, s)
	case And:
		return evalPred(p.Left, s) && evalPred(p.Right, s)
	case Or:
		return evalPred(p.Left, s) || evalPred(p.Right, s)
	}
	return false
}

func attrOf(s Subject, attr string) int {
	if attr == storage.AttrWordCount {
		return s.WordCount
	}
	return s.Length
}
