package tzio

import (
	"errors"
	"fmt"
)

// ErrInvalidData is matched (via errors.Is) by every error that reports
// malformed time zone data: truncated streams, invalid markers, values out
// of range, missing or duplicated container fields.
var ErrInvalidData = errors.New("invalid time zone data")

// DataError is a malformed-data error at a known byte offset of the
// stream being read.
type DataError struct {
	// Offset is the position within the decoded byte slice at which the
	// offending value starts.
	Offset int
	// Err describes the problem.
	Err error
}

// Error returns a string representation of the data error, implementing the error interface.
func (e *DataError) Error() string {
	return fmt.Sprintf("invalid time zone data at offset %d: %v", e.Offset, e.Err)
}

// Unwrap makes both ErrInvalidData and the underlying cause visible to errors.Is and errors.As.
func (e *DataError) Unwrap() []error {
	return []error{ErrInvalidData, e.Err}
}

// Invalid returns an error matching ErrInvalidData that is not tied to a
// byte offset, for problems detected after a stream has been read.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
