package repository

import (
	"time"

	"conversational-commerce/internal/eventlog"
)

// ListOptions selects events with Start <= occurred_at < End, restricted to
// Kinds when non-empty. A zero End means no upper bound.
type ListOptions struct {
	Start time.Time
	End   time.Time
	Kinds []eventlog.Kind
}

// Matches reports whether e satisfies the options.
func (o ListOptions) Matches(e eventlog.Event) bool {
	if e.OccurredAt.Before(o.Start) {
		return false
	}
	if !o.End.IsZero() && !e.OccurredAt.Before(o.End) {
		return false
	}
	if len(o.Kinds) == 0 {
		return true
	}
	for _, k := range o.Kinds {
		if e.Kind == k {
			return true
		}
	}
	return false
}
