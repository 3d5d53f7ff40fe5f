package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrSinkRejected is the sentinel matched by SinkError via errors.Is.
var ErrSinkRejected = errors.New("sink rejected records")

// TransportError represents a network-level or HTTP-level failure talking
// to an external collaborator. StatusCode is zero when the failure happened
// below HTTP.
type TransportError struct {
	Operation  string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed: HTTP %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an external call that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// SinkError represents a non-success response from the downstream sink.
// Distinguishable from local validation failures so callers can tell "our
// data was bad" from "the sink rejected good data".
type SinkError struct {
	StatusCode int
	Message    string
}

func (e *SinkError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sink rejected request: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sink rejected request: HTTP %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *SinkError) Is(target error) bool {
	return target == ErrSinkRejected
}
