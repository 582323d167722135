package tracking

import "errors"

var (
	ErrInvalidOperation = errors.New("invalid agent operation")
	ErrCartCreateFailed = errors.New("failed to create cart")
	ErrInvalidInput     = errors.New("invalid input")
)
