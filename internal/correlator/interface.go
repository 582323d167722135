package correlator

import (
	"context"

	"conversational-commerce/internal/webhook"
)

// UseCase links verified backend notifications to conversations and records them.
type UseCase interface {
	// Correlate appends n to the Event Log exactly once. A redelivered
	// notification is reported as a duplicate, not an error.
	Correlate(ctx context.Context, n webhook.Notification) (Outcome, error)
}
