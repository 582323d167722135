package conversation

import "context"

// UseCase is the Context Store. All operations on one user are linearizable;
// operations on different users do not contend.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// GetOrCreate returns the live context for userID, replacing an expired one.
	GetOrCreate(ctx context.Context, userID string) (Context, bool, error)
	// AppendTurn appends to an existing context; ErrNotFound when there is none.
	AppendTurn(ctx context.Context, userID string, role Role, text string) (Context, error)
	// RecordTurn is GetOrCreate and AppendTurn under one lock.
	RecordTurn(ctx context.Context, input RecordTurnInput) (RecordTurnOutput, error)
	UpdateFields(ctx context.Context, userID string, upd Update) (Context, error)
	// Clear removes the context; clearing an absent context is not an error.
	Clear(ctx context.Context, userID string) (bool, error)
	Snapshot(ctx context.Context, userID string) (Context, error)
	// EvictExpired removes every context idle for longer than the TTL.
	EvictExpired(ctx context.Context) (int, error)
	Stats(ctx context.Context) Stats
}
