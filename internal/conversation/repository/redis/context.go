package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conversational-commerce/internal/conversation"
	repo "conversational-commerce/internal/conversation/repository"
)

// Save writes the context as JSON, expiring ttl after its last activity.
func (r *implRepository) Save(ctx context.Context, c conversation.Context) error {
	val, err := json.Marshal(toDoc(c))
	if err != nil {
		r.l.Errorf(ctx, "%s marshal: %v", r.dsn("Save"), err)
		return repo.ErrFailedToSave
	}

	expiry := r.ttl - time.Since(c.LastActiveAt)
	if expiry <= 0 || expiry > r.ttl {
		expiry = r.ttl
	}

	if err := r.client.Set(ctx, r.key(c.UserID), val, expiry).Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Save"), err)
		return repo.ErrFailedToSave
	}
	return nil
}

// Load reads a stored context. A missing key is not an error.
func (r *implRepository) Load(ctx context.Context, userID string) (conversation.Context, bool, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return conversation.Context{}, false, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Load"), err)
		return conversation.Context{}, false, repo.ErrFailedToLoad
	}

	var d contextDoc
	if err := json.Unmarshal(val, &d); err != nil {
		// A corrupt entry is treated as absent so the caller starts fresh.
		r.l.Warnf(ctx, "%s unmarshal user_id=%s: %v", r.dsn("Load"), userID, err)
		return conversation.Context{}, false, nil
	}
	return d.toDomain(), true, nil
}

// Delete removes the stored context; deleting a missing key succeeds.
func (r *implRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Delete"), err)
		return repo.ErrFailedToDelete
	}
	return nil
}
