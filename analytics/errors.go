package analytics

import "errors"

var (
	// ErrSourceUnavailable means the event log could not be read in time. Retryable.
	ErrSourceUnavailable = errors.New("event source unavailable")

	// ErrInvalidRange means the caller asked for a window that cannot be queried.
	ErrInvalidRange = errors.New("invalid time range")
)

// RangeError describes why a time range was rejected. It matches ErrInvalidRange.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string {
	return "invalid time range: " + e.Reason
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
