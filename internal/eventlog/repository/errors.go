package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert event")
	ErrFailedToList   = errors.New("failed to list events")
	ErrFailedToCount  = errors.New("failed to count events")
)
