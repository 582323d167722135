package repository

import "errors"

var (
	ErrFailedToSave   = errors.New("failed to save context")
	ErrFailedToLoad   = errors.New("failed to load context")
	ErrFailedToDelete = errors.New("failed to delete context")
)
