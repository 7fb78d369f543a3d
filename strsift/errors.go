package strsift

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrIO            ErrorKind = "io"
	ErrSQL           ErrorKind = "sql"
	ErrSchema        ErrorKind = "schema"
	ErrQueryParse    ErrorKind = "query_parse"
	ErrQueryRejected ErrorKind = "query_rejected"
	ErrInvalidFilter ErrorKind = "invalid_filter"
	ErrInvalidValue  ErrorKind = "invalid_value"
	ErrUnknownField  ErrorKind = "unknown_field"
	ErrConflict      ErrorKind = "conflict"
	ErrNotFound      ErrorKind = "not_found"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func QueryParseError(cause error) *Error {
	return &Error{Kind: ErrQueryParse, Message: "unable to parse natural language query", Cause: cause}
}

func UnknownFieldError(field string, cause error) *Error {
	return &Error{Kind: ErrUnknownField, Message: "unknown field", Field: field, Cause: cause}
}

func ConflictError(value string) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf("string already exists: %q", value)}
}

func NotFoundError(value string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("string not found: %q", value)}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
