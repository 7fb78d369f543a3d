package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

func positional(class query.CharClass, letter string, pos int, neg bool) query.Contains {
	return query.Contains{Neg: neg, Subtype: query.SubtypePositional, Class: class, Letter: letter, Position: pos}
}

func TestCompileLeaves(t *testing.T) {
	three := 3
	tests := []struct {
		name string
		cond query.Condition
		want Pred
	}{
		{"all", query.All{}, True{}},
		{"comparison", query.Comparison{Field: query.FieldLength, Op: query.OpGt, Value: 5}, Cmp{"length", query.OpGt, 5}},
		{"range", query.Range{Field: query.FieldWordCount, Min: 2, Max: 4}, Between{"word_count", 2, 4}},
		{"count", query.Contains{Subtype: query.SubtypeCount, Field: query.FieldWordCount, Value: 2}, Cmp{"word_count", query.OpGte, 2}},
		{"class", query.Contains{Subtype: query.SubtypeCharClass, Class: query.ClassVowel}, ContainsAny{"value", "aeiou"}},
		{"negated letter", query.Contains{Neg: true, Subtype: query.SubtypeLetter, Letter: "q"}, Not{ContainsAny{"value", "q"}}},
		{"palindrome", query.Qualitative{Qual: query.QualPalindrome}, IsTrue{"is_palindrome", true}},
		{"palindrome with length", query.Qualitative{Qual: query.QualPalindrome, Length: &three},
			And{IsTrue{"is_palindrome", true}, Cmp{"length", query.OpEq, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(storage.StringsSchema, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Pushdown)
			assert.False(t, plan.NeedsPostFilter)
			assert.Empty(t, plan.PostFilter)
		})
	}
}

func TestCompilePositionalRelaxation(t *testing.T) {
	tests := []struct {
		name string
		leaf query.Contains
		want Pred
	}{
		{"positive position", positional(query.ClassVowel, "", 2, false), ContainsAny{"value", "aeiou"}},
		{"letter", positional("", "e", 1, false), ContainsAny{"value", "e"}},
		{"last", positional(query.ClassConsonant, "", query.PositionLast, false), True{}},
		{"negated", positional("", "e", 2, true), True{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(storage.StringsSchema, tt.leaf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Pushdown)
			assert.True(t, plan.NeedsPostFilter)
			assert.Equal(t, []query.Contains{tt.leaf}, plan.PostFilter)
		})
	}
}

func TestCompileCompoundFold(t *testing.T) {
	cond := query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: query.Comparison{Field: query.FieldLength, Op: query.OpGt, Value: 3}},
		{Op: query.BoolOr, Condition: query.Qualitative{Qual: query.QualPalindrome}},
		{Op: query.BoolAnd, Condition: positional("", "z", query.PositionLast, false)},
		{Op: query.BoolAnd, Condition: query.Contains{Subtype: query.SubtypeLetter, Letter: "a"}},
	})
	plan, err := Compile(storage.StringsSchema, cond)
	require.NoError(t, err)

	// ((length > 3 OR palindrome) AND TRUE) AND contains a
	want := And{
		Or{Cmp{"length", query.OpGt, 3}, IsTrue{"is_palindrome", true}},
		ContainsAny{"value", "a"},
	}
	assert.Equal(t, want, plan.Pushdown)
	assert.True(t, plan.NeedsPostFilter)
	assert.Len(t, plan.PostFilter, 1)
	assert.NotEmpty(t, plan.ExplainSteps)

	cond = query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: query.Comparison{Field: query.FieldLength, Op: query.OpGt, Value: 3}},
		{Op: query.BoolOr, Condition: positional("", "e", 2, true)},
	})
	plan, err = Compile(storage.StringsSchema, cond)
	require.NoError(t, err)
	assert.Equal(t, True{}, plan.Pushdown, "OR with an unpushable clause scans everything")
}

func TestCompileUnknownField(t *testing.T) {
	schema := storage.ColumnSchema{"length": "length", "value": "value"}

	_, err := Compile(schema, query.NewCompound([]query.Clause{
		{Op: query.BoolAnd, Condition: query.Comparison{Field: query.FieldLength, Op: query.OpGt, Value: 3}},
		{Op: query.BoolOr, Condition: query.All{}},
		{Op: query.BoolAnd, Condition: query.Range{Field: query.FieldWordCount, Min: 1, Max: 2}},
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
	var fe *UnknownFieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "word_count", fe.Attr)

	_, err = Compile(schema, query.Qualitative{Qual: query.QualPalindrome})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestCompileRejectsInvalidCondition(t *testing.T) {
	_, err := Compile(storage.StringsSchema, query.Contains{Subtype: query.SubtypePositional, Letter: "e", Position: 0})
	assert.Error(t, err)
}
