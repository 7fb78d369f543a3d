// Command strsift stores strings and filters them with structured flags or
// plain-English queries.
package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/strsift/strsift/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
