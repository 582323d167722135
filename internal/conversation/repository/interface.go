package repository

import (
	"context"

	"conversational-commerce/internal/conversation"
)

// Repository persists contexts outside the process so they survive restarts.
type Repository interface {
	Save(ctx context.Context, c conversation.Context) error
	// Load returns found == false when nothing is stored for userID.
	Load(ctx context.Context, userID string) (c conversation.Context, found bool, err error)
	Delete(ctx context.Context, userID string) error
}
