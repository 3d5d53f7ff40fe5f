package records

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON is returned when plaintext does not parse as JSON.
	// The message carries at most a short excerpt of the offending text.
	ErrInvalidJSON = errors.New("invalid record json")

	// ErrInvalidShape is returned when the top-level JSON value is not an array.
	ErrInvalidShape = errors.New("record payload is not an array")

	// ErrInvalidRecord is the sentinel matched by RecordError via errors.Is.
	ErrInvalidRecord = errors.New("invalid record")
)

// RecordError reports the first invalid record in a batch. Index is
// 1-based; validation stops at the first failure and the whole batch is
// rejected.
type RecordError struct {
	Index  int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
