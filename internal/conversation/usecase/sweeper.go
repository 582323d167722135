package usecase

import (
	"context"
	"time"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/pkg/log"
)

// Sweeper periodically evicts idle contexts.
type Sweeper struct {
	store    conversation.UseCase
	interval time.Duration
	l        log.Logger
	done     chan struct{}
}

// NewSweeper creates a Sweeper; Run starts it.
func NewSweeper(store conversation.UseCase, interval time.Duration, l log.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: store, interval: interval, l: l, done: make(chan struct{})}
}

// Run sweeps every interval until ctx is cancelled. It is meant to run on its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.l.Infof(ctx, "%s: started, interval=%s", LogPrefixSweeper, s.interval)
	for {
		select {
		case <-ctx.Done():
			s.l.Infof(context.Background(), "%s: stopped", LogPrefixSweeper)
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single eviction cycle and returns the number evicted.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	n, err := s.store.EvictExpired(ctx)
	if err != nil && ctx.Err() == nil {
		s.l.Errorf(ctx, "%s: %v", LogPrefixSweeper, err)
	}
	return n
}

// Done is closed once Run returns.
func (s *Sweeper) Done() <-chan struct{} {
	return s.done
}
