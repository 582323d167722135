package redis

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conversational-commerce/internal/conversation/repository"
	"conversational-commerce/pkg/log"
)

const (
	keyPrefix  = "context:"
	defaultTTL = 2 * time.Hour
)

type implRepository struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	l      log.Logger
}

// New creates a Redis-backed context Repository. Keys expire ttl after the last save.
func New(client *goredis.Client, prefix string, ttl time.Duration, l log.Logger) repository.Repository {
	if client == nil {
		panic("conversation/repository/redis: client is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &implRepository{client: client, prefix: prefix, ttl: ttl, l: l}
}

func (r *implRepository) key(userID string) string {
	return r.prefix + keyPrefix + userID
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("conversation/repository/redis.%s", method)
}
