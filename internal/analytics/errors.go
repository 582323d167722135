package analytics

import "errors"

var (
	ErrInvalidWindow = errors.New("invalid time window")
	ErrInvalidLimit  = errors.New("invalid limit")
)
