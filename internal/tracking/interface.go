package tracking

import "context"

// UseCase is the inbound surface the agent layer calls. It writes to the
// Context Store and the Event Log.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// RecordMessage records a chat turn. A message id seen before is a no-op.
	RecordMessage(ctx context.Context, input RecordMessageInput) (RecordMessageOutput, error)
	RecordProductView(ctx context.Context, input RecordProductViewInput) (RecordProductViewOutput, error)
	RecordSearch(ctx context.Context, input RecordSearchInput) (RecordSearchOutput, error)
	RecordAction(ctx context.Context, input RecordActionInput) (RecordActionOutput, error)
	// CreateCart creates a backend cart tagged with the user's active conversation.
	CreateCart(ctx context.Context, input CreateCartInput) (CreateCartOutput, error)
}
