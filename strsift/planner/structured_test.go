package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name   string
		params FilterParams
		want   Pred
	}{
		{"empty", FilterParams{}, True{}},
		{"palindrome false", FilterParams{IsPalindrome: boolp(false)}, IsTrue{"is_palindrome", false}},
		{"length bounds", FilterParams{MinLength: intp(2), MaxLength: intp(5)},
			And{Cmp{"length", query.OpGte, 2}, Cmp{"length", query.OpLte, 5}}},
		{"word count and unique", FilterParams{WordCount: intp(1), UniqueCharacters: intp(3)},
			And{Cmp{"word_count", query.OpEq, 1}, Cmp{"unique_characters", query.OpEq, 3}}},
		{"contains single keeps spaces", FilterParams{ContainsCharacter: "A B"}, Like{"value", LikeContains, "a b"}},
		{"startswith any", FilterParams{StartsWith: "a, b"},
			Or{Like{"value", LikePrefix, "a"}, Like{"value", LikePrefix, "b"}}},
		{"endswith all", FilterParams{EndsWith: "g & ng"},
			And{Like{"value", LikeSuffix, "g"}, Like{"value", LikeSuffix, "ng"}}},
		{"char count", FilterParams{CharacterCount: "a:3"}, CharCount{"char_freq", "a", query.OpEq, 3}},
		{"min char counts", FilterParams{MinCharacterCount: "a:1 & B:12"},
			And{CharCount{"char_freq", "a", query.OpGte, 1}, CharCount{"char_freq", "b", query.OpGte, 12}}},
		{"max char counts any", FilterParams{MaxCharacterCount: "x:0,y:1"},
			Or{CharCount{"char_freq", "x", query.OpLte, 0}, CharCount{"char_freq", "y", query.OpLte, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CompileFilter(storage.StringsSchema, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Pushdown)
			assert.False(t, plan.NeedsPostFilter)
		})
	}
}

func TestCompileFilterInvalid(t *testing.T) {
	bad := []FilterParams{
		{MinLength: intp(-1)},
		{ContainsCharacter: "a,,b"},
		{CharacterCount: "a3"},
		{CharacterCount: "a:"},
		{CharacterCount: "a:x"},
		{MinCharacterCount: "ab:2"},
		{MaxCharacterCount: "a:1&"},
	}
	for _, p := range bad {
		_, err := CompileFilter(storage.StringsSchema, p)
		assert.ErrorIs(t, err, ErrInvalidFilter, "%+v", p)
	}

	_, err := CompileFilter(storage.ColumnSchema{"value": "value"}, FilterParams{CharacterCount: "a:1"})
	assert.ErrorIs(t, err, ErrUnknownField)
}
