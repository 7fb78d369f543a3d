package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/storage/sqlbuilder"
)

func TestValidSchemaName(t *testing.T) {
	for _, ok := range []string{"strsift", "_tmp", "a1"} {
		assert.True(t, ValidSchemaName(ok), ok)
	}
	for _, bad := range []string{"", "1abc", `x"y`, "a-b", "a b"} {
		assert.False(t, ValidSchemaName(bad), bad)
	}
}

func TestDialectCharCount(t *testing.T) {
	a := New("postgres://localhost/db", "strsift")
	b := sqlbuilder.New(a.PlaceholderStyle())
	b.Arg(1)

	expr := a.Dialect().CharCount(b, "char_freq", "a")
	assert.Equal(t, "COALESCE((char_freq ->> $2)::int, 0)", expr)
	assert.Equal(t, []any{1, "a"}, b.Args())
	assert.Equal(t, storage.BackendPostgres, a.Backend())
	assert.Equal(t, "postgres:strsift", a.StoreID())
}
