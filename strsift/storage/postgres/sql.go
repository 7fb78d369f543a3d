package postgres

import (
	"fmt"

	"github.com/strsift/strsift/strsift/storage"
)

const stringColumns = "id, value, length, is_palindrome, unique_characters, word_count, char_freq, created_at"

var SQLTemplates = storage.SQL{
	GetMeta: "SELECT value FROM meta WHERE key = $1",
	SetMeta: "INSERT INTO meta(key,value) VALUES($1,$2) ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value",

	InsertString: `INSERT INTO strings(` + stringColumns + `)
		VALUES($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
		ON CONFLICT DO NOTHING`,
	GetStringByValue:    "SELECT id, value, length, is_palindrome, unique_characters, word_count, char_freq::text, created_at FROM strings WHERE value = $1",
	DeleteStringByValue: "DELETE FROM strings WHERE value = $1",
	CountStrings:        "SELECT COUNT(*) FROM strings",

	SelectStrings: "SELECT id, value, length, is_palindrome, unique_characters, word_count, char_freq::text, created_at FROM strings",
	OrderStrings:  "ORDER BY created_at ASC, id ASC",
}

type jsonbDialect struct{}

func (jsonbDialect) CharCount(b storage.Builder, column, char string) string {
	ph := b.Arg(char)
	return fmt.Sprintf("COALESCE((%s ->> %s)::int, 0)", column, ph)
}
