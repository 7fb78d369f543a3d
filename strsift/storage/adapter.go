package storage

import (
	"context"
	"database/sql"

	"github.com/strsift/strsift/strsift/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Meta keys written on store creation.
const (
	MetaMagic   = "strsift_magic"
	MetaVersion = "strsift_version"

	Magic   = "strsift"
	Version = "1"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	// CreateStore applies the DDL and writes the meta rows. It is idempotent.
	CreateStore(ctx context.Context, db *sql.DB) error
	// OpenStore verifies the meta rows of an existing store.
	OpenStore(ctx context.Context, db *sql.DB) error
	Optimize(ctx context.Context, db *sql.DB) error

	SQL() SQL
	Dialect() Dialect
}

// Dialect renders the expressions that differ between backends.
type Dialect interface {
	// CharCount returns an integer expression yielding how often char
	// occurs in a record, read from its stored frequency map.
	CharCount(b Builder, column, char string) string
}

// Schema maps logical attribute names to columns of the strings table.
type Schema interface {
	Column(attr string) (string, bool)
	HasAttribute(attr string) bool
}

// Attribute names understood by the planner.
const (
	AttrValue            = "value"
	AttrLength           = "length"
	AttrWordCount        = "word_count"
	AttrIsPalindrome     = "is_palindrome"
	AttrUniqueCharacters = "unique_characters"
	AttrCharFreq         = "char_freq"
)

// ColumnSchema is a Schema backed by a fixed attribute to column map.
type ColumnSchema map[string]string

func (s ColumnSchema) Column(attr string) (string, bool) {
	c, ok := s[attr]
	return c, ok
}

func (s ColumnSchema) HasAttribute(attr string) bool {
	_, ok := s[attr]
	return ok
}

// StringsSchema describes the strings table created by both adapters.
var StringsSchema = ColumnSchema{
	AttrValue:            "value",
	AttrLength:           "length",
	AttrWordCount:        "word_count",
	AttrIsPalindrome:     "is_palindrome",
	AttrUniqueCharacters: "unique_characters",
	AttrCharFreq:         "char_freq",
}

// SQL holds prepared SQL templates for common operations
type SQL struct {
	GetMeta string
	SetMeta string

	InsertString        string
	GetStringByValue    string
	DeleteStringByValue string
	CountStrings        string

	// SelectStrings is the column list and FROM clause shared by every
	// record query; callers append WHERE and ORDER BY.
	SelectStrings string
	OrderStrings  string
}

// Builder interface for placeholder management
type Builder interface {
	Arg(v any) string
	Args() []any
	Len() int
}
