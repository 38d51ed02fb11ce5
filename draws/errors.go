package draws

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownWeekday    = errors.New("unknown weekday")
	ErrInvalidDrawSearch = errors.New("draw search must be a number")
)

// MissingColumnsError lists every required column absent from the source header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// SourceUnavailableError means the workbook or its sheet could not be read.
type SourceUnavailableError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *SourceUnavailableError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("source %s (sheet %q) unavailable: %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("source %s unavailable: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// RowError reports a data row whose cell could not be converted.
// Row is 1-based as displayed by spreadsheet software.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d column %s: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
