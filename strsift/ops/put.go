package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/textstat"
)

// ErrDuplicate is returned by Insert when the value is already stored.
var ErrDuplicate = errors.New("value already exists")

// Row is a raw row of the strings table
type Row struct {
	ID               string
	Value            string
	Length           int
	IsPalindrome     bool
	UniqueCharacters int
	WordCount        int
	CharFreqJSON     string
	CreatedAtMS      int64
}

// PreparedPut holds the canonical value and its derived columns.
type PreparedPut struct {
	Value    string
	Props    textstat.Properties
	FreqJSON []byte
}

// PreparePut canonicalizes value and computes its stored attributes.
func PreparePut(value string) (*PreparedPut, error) {
	canon := textstat.Canonical(value)
	props := textstat.Analyze(canon)
	freq, err := json.Marshal(props.CharacterFrequencyMap)
	if err != nil {
		return nil, fmt.Errorf("marshal character frequencies: %w", err)
	}
	return &PreparedPut{Value: canon, Props: props, FreqJSON: freq}, nil
}

// ExecutePut inserts a prepared value within tx. It returns ErrDuplicate
// when a row with the same value exists; the transaction stays usable.
func ExecutePut(ctx context.Context, tx *sql.Tx, sqlt storage.SQL, prep *PreparedPut, nowMS int64) (Row, error) {
	p := prep.Props
	res, err := tx.ExecContext(ctx, sqlt.InsertString,
		p.ID, prep.Value, p.Length, p.IsPalindrome, p.UniqueCharacters, p.WordCount, string(prep.FreqJSON), nowMS)
	if err != nil {
		return Row{}, fmt.Errorf("insert string: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Row{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return Row{}, ErrDuplicate
	}
	return Row{
		ID:               p.ID,
		Value:            prep.Value,
		Length:           p.Length,
		IsPalindrome:     p.IsPalindrome,
		UniqueCharacters: p.UniqueCharacters,
		WordCount:        p.WordCount,
		CharFreqJSON:     string(prep.FreqJSON),
		CreatedAtMS:      nowMS,
	}, nil
}

// GetByValue loads the row for a canonical value. A missing row is
// reported as sql.ErrNoRows.
func GetByValue(ctx context.Context, db *sql.DB, sqlt storage.SQL, value string) (Row, error) {
	return scanRow(db.QueryRowContext(ctx, sqlt.GetStringByValue, textstat.Canonical(value)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (Row, error) {
	var r Row
	err := s.Scan(&r.ID, &r.Value, &r.Length, &r.IsPalindrome, &r.UniqueCharacters, &r.WordCount, &r.CharFreqJSON, &r.CreatedAtMS)
	return r, err
}
