package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strsift/strsift/strsift/storage"
	"github.com/strsift/strsift/strsift/textstat"
)

// DeleteByValue deletes a value, returns true if it was found and deleted
func DeleteByValue(ctx context.Context, db *sql.DB, sqlt storage.SQL, value string) (bool, error) {
	res, err := db.ExecContext(ctx, sqlt.DeleteStringByValue, textstat.Canonical(value))
	if err != nil {
		return false, fmt.Errorf("delete string: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of stored values.
func Count(ctx context.Context, db *sql.DB, sqlt storage.SQL) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, sqlt.CountStrings).Scan(&n); err != nil {
		return 0, fmt.Errorf("count strings: %w", err)
	}
	return n, nil
}
