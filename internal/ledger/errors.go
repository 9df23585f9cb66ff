package ledger

import (
	"errors"
	"fmt"
)

// ErrSource is wrapped by every failure to open or read a transaction source.
var ErrSource = errors.New("transaction source unavailable")

// FormatError describes a row that could not be decoded. Row is the 1-based
// line in the source, header included.
type FormatError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("row %d: field %s %q: %v", e.Row, e.Field, e.Value, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *FormatError) Unwrap() error { return e.Err }
