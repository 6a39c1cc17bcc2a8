package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFileType is returned for files without a .csv or .txt suffix.
	ErrUnsupportedFileType = errors.New("unsupported file type: only .csv and .txt statements can be imported")
	// ErrNoTransactions is returned when a file yields no usable transactions.
	ErrNoTransactions = errors.New("no transactions found in file")
	// ErrUndetectable is returned when auto-detection cannot assign every column role.
	ErrUndetectable = errors.New("could not detect date, description and amount columns")
)

// LineError reports why one statement line was skipped.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
