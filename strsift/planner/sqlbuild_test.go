package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/storage/sqlbuilder"
	"github.com/strsift/strsift/strsift/storage/sqlite"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		pred     Pred
		wantSQL  string
		wantArgs []any
	}{
		{"true", True{}, "1=1", nil},
		{"cmp", Cmp{"length", query.OpGt, 5}, "length > ?", []any{5}},
		{"eq", Cmp{"word_count", query.OpEq, 1}, "word_count = ?", []any{1}},
		{"ne", Cmp{"word_count", query.OpNe, 1}, "word_count <> ?", []any{1}},
		{"between", Between{"length", 2, 4}, "length BETWEEN ? AND ?", []any{2, 4}},
		{"bool", IsTrue{"is_palindrome", true}, "is_palindrome = ?", []any{true}},
		{"letter", ContainsAny{"value", "a"}, `LOWER(value) LIKE ? ESCAPE '\'`, []any{"%a%"}},
		{"class", ContainsAny{"value", "ae"},
			`(LOWER(value) LIKE ? ESCAPE '\' OR LOWER(value) LIKE ? ESCAPE '\')`, []any{"%a%", "%e%"}},
		{"not", Not{ContainsAny{"value", "q"}}, `NOT (LOWER(value) LIKE ? ESCAPE '\')`, []any{"%q%"}},
		{"prefix escaped", Like{"value", LikePrefix, "50%_Off"}, `LOWER(value) LIKE ? ESCAPE '\'`, []any{`50\%\_off%`}},
		{"suffix", Like{"value", LikeSuffix, "ing"}, `LOWER(value) LIKE ? ESCAPE '\'`, []any{"%ing"}},
		{"and/or", And{Or{Cmp{"length", query.OpLt, 3}, IsTrue{"is_palindrome", true}}, Cmp{"word_count", query.OpGte, 2}},
			"((length < ? OR is_palindrome = ?) AND word_count >= ?)", []any{3, true, 2}},
		{"char count", CharCount{"char_freq", "a", query.OpGte, 2},
			"COALESCE((SELECT j.value FROM json_each(char_freq) AS j WHERE j.key = ?), 0) >= ?", []any{"a", 2}},
	}
	dialect := sqlite.New("").Dialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
			got, err := BuildWhere(tt.pred, b, storage.StringsSchema, dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, got)
			if tt.wantArgs == nil {
				assert.Empty(t, b.Args())
			} else {
				assert.Equal(t, tt.wantArgs, b.Args())
			}
		})
	}
}

func TestBuildWhereDollarPlaceholders(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderDollar)
	got, err := BuildWhere(And{Between{"length", 1, 9}, Not{IsTrue{"is_palindrome", true}}}, b, storage.StringsSchema, nil)
	require.NoError(t, err)
	assert.Equal(t, "(length BETWEEN $1 AND $2 AND NOT (is_palindrome = $3))", got)
}

func TestBuildWhereErrors(t *testing.T) {
	b := sqlbuilder.New(sqlbuilder.PlaceholderQuestion)
	_, err := BuildWhere(Cmp{"vowels", query.OpGt, 1}, b, storage.StringsSchema, nil)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = BuildWhere(CharCount{"char_freq", "a", query.OpEq, 1}, b, storage.StringsSchema, nil)
	assert.Error(t, err, "char counts need a dialect")

	_, err = BuildWhere(Cmp{"length", query.Op("~"), 1}, b, storage.StringsSchema, nil)
	assert.Error(t, err)
}
