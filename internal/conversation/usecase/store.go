package usecase

import (
	"context"
	"fmt"
	"time"

	"conversational-commerce/internal/conversation"
)

// acquire returns the locked entry for userID. With create set, a placeholder
// entry (live == false) is inserted when none exists; the caller must either
// fill it or release it with drop.
func (uc *implUseCase) acquire(userID string, create bool) *entry {
	sh := uc.shardFor(userID)
	for {
		sh.mu.RLock()
		e := sh.entries[userID]
		sh.mu.RUnlock()

		if e == nil {
			if !create {
				return nil
			}
			sh.mu.Lock()
			e = sh.entries[userID]
			if e == nil {
				e = &entry{}
				sh.entries[userID] = e
			}
			sh.mu.Unlock()
		}

		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}
		return e
	}
}

// drop unlinks a locked entry from its shard. The caller still holds e.mu.
func (uc *implUseCase) drop(userID string, e *entry) {
	sh := uc.shardFor(userID)
	sh.mu.Lock()
	if sh.entries[userID] == e {
		delete(sh.entries, userID)
	}
	sh.mu.Unlock()

	e.removed = true
	if e.live {
		e.live = false
		uc.metrics.SetContextsActive(int(uc.active.Add(-1)))
	}
}

func (uc *implUseCase) expired(c conversation.Context, now time.Time) bool {
	return now.Sub(c.LastActiveAt) > uc.ttl
}

// persist writes next through to the repository, if one is configured.
func (uc *implUseCase) persist(ctx context.Context, next conversation.Context) error {
	if uc.repo == nil {
		return nil
	}
	if err := uc.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %v", conversation.ErrPersistence, err)
	}
	return nil
}

// commit installs next into a locked entry after it was persisted.
func (uc *implUseCase) commit(e *entry, next conversation.Context) {
	e.ctx = next
	if !e.live {
		e.live = true
		uc.metrics.SetContextsActive(int(uc.active.Add(1)))
	}
}

// liveOrFresh returns the context to build on for a locked entry: the current
// one when still within TTL, a restored one from the repository, or a new one.
func (uc *implUseCase) liveOrFresh(ctx context.Context, userID string, e *entry, now time.Time) (conversation.Context, bool) {
	if e.live {
		if !uc.expired(e.ctx, now) {
			return e.ctx.Clone(), false
		}
		uc.l.Infof(ctx, "%s: conversation %s for user %s expired, starting a new one", LogPrefixGetOrCreate, e.ctx.ConversationID, userID)
		uc.metrics.RecordEviction(ReasonReplaced, 1)
	} else if uc.repo != nil {
		stored, found, err := uc.repo.Load(ctx, userID)
		if err != nil {
			uc.l.Warnf(ctx, "%s: load user_id=%s: %v", LogPrefixGetOrCreate, userID, err)
		} else if found && stored.ConversationID != "" && !uc.expired(stored, now) {
			uc.l.Infof(ctx, LogMsgContextRestored, stored.ConversationID, userID)
			stored.UserID = userID
			stored.Turns = trimTurns(stored.Turns, uc.maxTurns)
			return stored, false
		}
	}

	return conversation.Context{
		UserID:         userID,
		ConversationID: uc.newID(),
		CreatedAt:      now,
		LastActiveAt:   now,
	}, true
}

// release undoes a placeholder insert when the creator failed.
func (uc *implUseCase) release(userID string, e *entry) {
	if !e.live {
		uc.drop(userID, e)
	}
	e.mu.Unlock()
}

// GetOrCreate returns the live context for userID, creating one when absent or expired.
func (uc *implUseCase) GetOrCreate(ctx context.Context, userID string) (conversation.Context, bool, error) {
	if userID == "" {
		return conversation.Context{}, false, conversation.ErrEmptyUserID
	}

	e := uc.acquire(userID, true)
	now := uc.now()
	next, created := uc.liveOrFresh(ctx, userID, e, now)
	if now.After(next.LastActiveAt) {
		next.LastActiveAt = now
	}

	if err := uc.persist(ctx, next); err != nil {
		uc.l.Errorf(ctx, "%s: %v", LogPrefixGetOrCreate, err)
		uc.release(userID, e)
		return conversation.Context{}, false, err
	}
	uc.commit(e, next)
	e.mu.Unlock()

	if created {
		uc.l.Debugf(ctx, LogMsgContextCreated, next.ConversationID, userID)
	}
	return next.Clone(), created, nil
}

// AppendTurn appends a turn to an existing, live context.
func (uc *implUseCase) AppendTurn(ctx context.Context, userID string, role conversation.Role, text string) (conversation.Context, error) {
	if userID == "" {
		return conversation.Context{}, conversation.ErrEmptyUserID
	}
	if !role.Valid() {
		return conversation.Context{}, conversation.ErrInvalidRole
	}

	return uc.mutate(ctx, userID, func(c *conversation.Context, now time.Time) {
		uc.appendTurn(c, conversation.Turn{Role: role, Text: text, At: now})
	})
}

// RecordTurn creates the context if needed and appends the turn under one lock.
func (uc *implUseCase) RecordTurn(ctx context.Context, input conversation.RecordTurnInput) (conversation.RecordTurnOutput, error) {
	if input.UserID == "" {
		return conversation.RecordTurnOutput{}, conversation.ErrEmptyUserID
	}
	if !input.Role.Valid() {
		return conversation.RecordTurnOutput{}, conversation.ErrInvalidRole
	}

	e := uc.acquire(input.UserID, true)
	now := uc.now()
	next, created := uc.liveOrFresh(ctx, input.UserID, e, now)

	// The caller's timestamp only labels the turn; idle time is measured by the store clock.
	at := input.At
	if at.IsZero() || at.After(now) {
		at = now
	}
	uc.appendTurn(&next, conversation.Turn{Role: input.Role, Text: input.Text, At: at})
	if now.After(next.LastActiveAt) {
		next.LastActiveAt = now
	}

	if err := uc.persist(ctx, next); err != nil {
		uc.l.Errorf(ctx, "%s: %v", LogPrefixRecordTurn, err)
		uc.release(input.UserID, e)
		return conversation.RecordTurnOutput{}, err
	}
	uc.commit(e, next)
	e.mu.Unlock()

	uc.metrics.RecordTurn(string(input.Role))
	if created {
		uc.l.Debugf(ctx, LogMsgContextCreated, next.ConversationID, input.UserID)
	}
	return conversation.RecordTurnOutput{Context: next.Clone(), Created: created}, nil
}

func (uc *implUseCase) appendTurn(c *conversation.Context, t conversation.Turn) {
	c.Turns = trimTurns(append(c.Turns, t), uc.maxTurns)
	if t.At.After(c.LastActiveAt) {
		c.LastActiveAt = t.At
	}
}

// UpdateFields merges upd into an existing, live context.
func (uc *implUseCase) UpdateFields(ctx context.Context, userID string, upd conversation.Update) (conversation.Context, error) {
	if userID == "" {
		return conversation.Context{}, conversation.ErrEmptyUserID
	}

	return uc.mutate(ctx, userID, func(c *conversation.Context, now time.Time) {
		applyUpdate(c, upd)
		if now.After(c.LastActiveAt) {
			c.LastActiveAt = now
		}
	})
}

// mutate applies fn to a copy of a live context and commits it once persisted.
func (uc *implUseCase) mutate(ctx context.Context, userID string, fn func(c *conversation.Context, now time.Time)) (conversation.Context, error) {
	e := uc.acquire(userID, false)
	if e == nil {
		return conversation.Context{}, conversation.ErrNotFound
	}
	defer e.mu.Unlock()

	now := uc.now()
	if !e.live {
		return conversation.Context{}, conversation.ErrNotFound
	}
	if uc.expired(e.ctx, now) {
		uc.evictLocked(ctx, userID, e, ReasonTTL)
		return conversation.Context{}, conversation.ErrNotFound
	}

	next := e.ctx.Clone()
	fn(&next, now)

	if err := uc.persist(ctx, next); err != nil {
		uc.l.Errorf(ctx, "internal.conversation.usecase.mutate: user_id=%s: %v", userID, err)
		return conversation.Context{}, err
	}
	uc.commit(e, next)
	return next.Clone(), nil
}

// Clear removes the context immediately, regardless of TTL.
func (uc *implUseCase) Clear(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, conversation.ErrEmptyUserID
	}

	e := uc.acquire(userID, false)
	if e == nil {
		// Nothing in memory; still remove any persisted copy.
		if uc.repo != nil {
			if err := uc.repo.Delete(ctx, userID); err != nil {
				return false, fmt.Errorf("%w: %v", conversation.ErrPersistence, err)
			}
		}
		return false, nil
	}
	defer e.mu.Unlock()

	if uc.repo != nil {
		if err := uc.repo.Delete(ctx, userID); err != nil {
			return false, fmt.Errorf("%w: %v", conversation.ErrPersistence, err)
		}
	}

	existed := e.live
	uc.drop(userID, e)
	if existed {
		uc.metrics.RecordEviction(ReasonManual, 1)
	}
	return existed, nil
}

// Snapshot returns a deep copy of the live context.
func (uc *implUseCase) Snapshot(ctx context.Context, userID string) (conversation.Context, error) {
	if userID == "" {
		return conversation.Context{}, conversation.ErrEmptyUserID
	}

	e := uc.acquire(userID, false)
	if e == nil {
		return conversation.Context{}, conversation.ErrNotFound
	}
	defer e.mu.Unlock()

	if !e.live {
		return conversation.Context{}, conversation.ErrNotFound
	}
	if uc.expired(e.ctx, uc.now()) {
		uc.evictLocked(ctx, userID, e, ReasonTTL)
		return conversation.Context{}, conversation.ErrNotFound
	}
	return e.ctx.Clone(), nil
}

// evictLocked removes an expired entry the caller holds locked.
func (uc *implUseCase) evictLocked(ctx context.Context, userID string, e *entry, reason string) {
	uc.drop(userID, e)
	uc.metrics.RecordEviction(reason, 1)
	if uc.repo != nil {
		if err := uc.repo.Delete(ctx, userID); err != nil {
			// The key carries its own expiry, so a failed delete only lingers until then.
			uc.l.Warnf(ctx, "%s: delete user_id=%s: %v", LogPrefixEvictExpired, userID, err)
		}
	}
}
