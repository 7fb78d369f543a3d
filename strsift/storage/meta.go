package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized means the database carries no strsift meta rows.
	ErrNotInitialized = errors.New("store not initialized")
	// ErrForeignStore means the meta table belongs to something else.
	ErrForeignStore = errors.New("not a strsift database")
)

// VerifyMeta checks the magic and version rows written by CreateStore.
func VerifyMeta(ctx context.Context, db *sql.DB, sqlt SQL) error {
	var magic string
	if err := db.QueryRowContext(ctx, sqlt.GetMeta, MetaMagic).Scan(&magic); err != nil {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}
	if magic != Magic {
		return fmt.Errorf("%w: magic %q", ErrForeignStore, magic)
	}
	var version string
	if err := db.QueryRowContext(ctx, sqlt.GetMeta, MetaVersion).Scan(&version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != Version {
		return fmt.Errorf("unsupported store version %q (want %s)", version, Version)
	}
	return nil
}
