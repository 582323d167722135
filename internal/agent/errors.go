package agent

import "errors"

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrRecordFailed     = errors.New("failed to record action")
)
