package convert

import (
	"errors"
	"fmt"
)

// ErrDateParse is wrapped when a rendered date does not match date_format.
var ErrDateParse = errors.New("could not parse date")

// FieldError attaches the output field being built to an error.
type FieldError struct {
	Field string // e.g. "date", "postings[1].amount"
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// ColumnError reports a row too short for a mapped input column.
type ColumnError struct {
	Name   string
	Index  int
	Fields int
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("input %q: column %d out of range (row has %d fields)", e.Name, e.Index, e.Fields)
}

// RowError attaches the 1-based CSV row number, skipped rows included.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
