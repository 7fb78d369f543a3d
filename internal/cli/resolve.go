package cli

import (
	"os"
	"path/filepath"
)

// DefaultSQLiteFile is the database file name used when the configured
// sqlite path is a directory.
const DefaultSQLiteFile = "strsift.db"

// ResolveSQLitePath turns the configured sqlite path into a database file.
// An existing directory, or a path ending in a separator, gets
// DefaultSQLiteFile inside it; anything else is used as given.
func ResolveSQLitePath(path string) string {
	if path == "" {
		return DefaultSQLiteFile
	}
	if os.IsPathSeparator(path[len(path)-1]) {
		return filepath.Join(path, DefaultSQLiteFile)
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, DefaultSQLiteFile)
	}
	return path
}
