package conversation

import "errors"

var (
	ErrNotFound    = errors.New("conversation context not found")
	ErrEmptyUserID = errors.New("user id is required")
	ErrInvalidRole = errors.New("role must be user or assistant")
	ErrPersistence = errors.New("failed to persist conversation context")
)
