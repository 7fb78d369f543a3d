package sqlite

import (
	"fmt"

	"github.com/strsift/strsift/strsift/storage"
)

const stringColumns = "id, value, length, is_palindrome, unique_characters, word_count, char_freq, created_at"

var SQLTemplates = storage.SQL{
	GetMeta: "SELECT value FROM meta WHERE key = ?1",
	SetMeta: "INSERT INTO meta(key,value) VALUES(?1,?2) ON CONFLICT(key) DO UPDATE SET value=excluded.value",

	InsertString: `INSERT INTO strings(` + stringColumns + `)
		VALUES(?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8)
		ON CONFLICT DO NOTHING`,
	GetStringByValue:    "SELECT " + stringColumns + " FROM strings WHERE value = ?1",
	DeleteStringByValue: "DELETE FROM strings WHERE value = ?1",
	CountStrings:        "SELECT COUNT(*) FROM strings",

	SelectStrings: "SELECT " + stringColumns + " FROM strings",
	OrderStrings:  "ORDER BY created_at ASC, id ASC",
}

// jsonDialect reads frequency counts with the json1 table-valued
// function so any character is usable as a key without path quoting.
type jsonDialect struct{}

func (jsonDialect) CharCount(b storage.Builder, column, char string) string {
	ph := b.Arg(char)
	return fmt.Sprintf("COALESCE((SELECT j.value FROM json_each(%s) AS j WHERE j.key = %s), 0)", column, ph)
}
