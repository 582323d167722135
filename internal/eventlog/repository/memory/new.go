package memory

import (
	"sync"
	"time"

	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

// implRepository keeps events in an append-only slice. Elements are never
// modified after append. byTime holds positions into events ordered by
// occurred_at, so a windowed List only touches the events inside the window.
type implRepository struct {
	l       log.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.RWMutex
	events []eventlog.Event
	byTime []int
	keys   map[string]struct{}
}

// New creates an in-memory Event Log.
func New(l log.Logger, m *metrics.Metrics) repository.Repository {
	return &implRepository{
		l:       l,
		metrics: m,
		now:     time.Now,
		keys:    make(map[string]struct{}),
	}
}
