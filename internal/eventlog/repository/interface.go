package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"conversational-commerce/internal/eventlog"
)

// Repository is the append-only Event Log.
type Repository interface {
	// Append stores e atomically with its dedup check. It returns
	// eventlog.ErrDuplicate when e.DedupKey was already appended.
	Append(ctx context.Context, e eventlog.Event) (eventlog.Event, error)
	// List returns matching events ordered by append sequence.
	List(ctx context.Context, opt ListOptions) ([]eventlog.Event, error)
	// Exists reports whether dedupKey was already appended.
	Exists(ctx context.Context, dedupKey string) (bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Prepare validates e and fills the id and timestamp defaults.
func Prepare(e eventlog.Event, now time.Time) (eventlog.Event, error) {
	if !e.Kind.Valid() {
		return eventlog.Event{}, eventlog.ErrInvalidEvent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	// Storage keeps microsecond precision.
	e.OccurredAt = e.OccurredAt.UTC().Truncate(time.Microsecond)
	return e, nil
}
