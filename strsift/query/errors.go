package query

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparsable means no grammar alternative matched the normalized text.
	ErrUnparsable = errors.New("unparsable query")
	// ErrParseTimeout means parsing exceeded its deadline or step budget.
	ErrParseTimeout = errors.New("query parse timed out")
)

// ParseError reports where parsing of a normalized query stopped.
type ParseError struct {
	Input string // normalized text
	Pos   int    // rune offset of the furthest token reached
	Err   error  // ErrUnparsable or ErrParseTimeout, possibly wrapping a cause
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%v: empty query", e.Err)
	}
	return fmt.Sprintf("%v at offset %d in %q", e.Err, e.Pos, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
