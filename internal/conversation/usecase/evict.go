package usecase

import (
	"context"
	"time"

	"conversational-commerce/internal/conversation"
)

type candidate struct {
	userID string
	e      *entry
}

func (uc *implUseCase) candidates() []candidate {
	var out []candidate
	for _, sh := range uc.shards {
		sh.mu.RLock()
		for id, e := range sh.entries {
			out = append(out, candidate{userID: id, e: e})
		}
		sh.mu.RUnlock()
	}
	return out
}

// EvictExpired removes contexts whose last activity is older than the TTL at
// the instant the sweep starts. Each candidate is re-checked under its own lock,
// so a context touched mid-sweep survives.
func (uc *implUseCase) EvictExpired(ctx context.Context) (int, error) {
	start := time.Now()
	now := uc.now()

	evicted := 0
	for _, c := range uc.candidates() {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}

		c.e.mu.Lock()
		if !c.e.removed && c.e.live && uc.expired(c.e.ctx, now) {
			uc.evictLocked(ctx, c.userID, c.e, ReasonTTL)
			evicted++
		}
		c.e.mu.Unlock()
	}

	uc.metrics.RecordSweep(time.Since(start))
	if evicted > 0 {
		uc.l.Infof(ctx, "%s: "+LogMsgContextsEvicted, LogPrefixEvictExpired, evicted, uc.active.Load())
	}
	return evicted, nil
}

// Stats summarises the contexts currently held.
func (uc *implUseCase) Stats(ctx context.Context) conversation.Stats {
	st := conversation.Stats{TTL: uc.ttl, MaxTurns: uc.maxTurns}
	for _, c := range uc.candidates() {
		c.e.mu.Lock()
		if c.e.live && !c.e.removed {
			st.ActiveContexts++
			st.TotalTurns += len(c.e.ctx.Turns)
			if c.e.ctx.ActiveCartRef != "" {
				st.ActiveCarts++
			}
		}
		c.e.mu.Unlock()
	}
	return st
}
