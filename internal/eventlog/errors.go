package eventlog

import "errors"

var (
	// ErrDuplicate is returned when an event with the same dedup key was already appended.
	ErrDuplicate    = errors.New("duplicate event")
	ErrInvalidEvent = errors.New("invalid event")
)
