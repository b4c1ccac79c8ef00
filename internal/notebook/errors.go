package notebook

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports a document or cell that lacks the shape the walker needs
	ErrSchema = errors.New("notebook schema error")

	// ErrMalformedSource reports a source that is neither a string nor an array of strings
	ErrMalformedSource = errors.New("malformed cell source")

	// ErrProvider wraps any failure returned by the translation provider
	ErrProvider = errors.New("translation provider error")
)

// CellError attaches the cell position and, when known, the offending field
// to an error raised while processing a cell.
type CellError struct {
	Index int // zero-based cell index
	Field string
	Err   error
}

func (e *CellError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("cell %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("cell %d: %v", e.Index, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
