package usecase

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/conversation/repository"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

// Config tunes the store.
type Config struct {
	TTL        time.Duration
	MaxTurns   int
	ShardCount int
}

// entry guards one user's context. removed is set under mu when the entry
// leaves its shard; goroutines that lose that race look the user up again.
type entry struct {
	mu      sync.Mutex
	ctx     conversation.Context
	live    bool
	removed bool
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// implUseCase is the sharded in-memory Context Store with optional write-through persistence.
type implUseCase struct {
	l        log.Logger
	repo     repository.Repository
	metrics  *metrics.Metrics
	shards   []*shard
	ttl      time.Duration
	maxTurns int
	active   atomic.Int64

	now   func() time.Time
	newID func() string
}

// Option customises the store.
type Option func(*implUseCase)

// WithRepository enables write-through persistence.
func WithRepository(repo repository.Repository) Option {
	return func(uc *implUseCase) { uc.repo = repo }
}

// WithMetrics records store metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *implUseCase) { uc.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *implUseCase) { uc.now = now }
}

// WithIDGenerator overrides conversation id generation.
func WithIDGenerator(newID func() string) Option {
	return func(uc *implUseCase) { uc.newID = newID }
}

// New creates the Context Store.
func New(l log.Logger, cfg Config, opts ...Option) conversation.UseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.ShardCount <= 0 {
		cfg.ShardCount = DefaultShardCount
	}

	uc := &implUseCase{
		l:        l,
		shards:   make([]*shard, cfg.ShardCount),
		ttl:      cfg.TTL,
		maxTurns: cfg.MaxTurns,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for i := range uc.shards {
		uc.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *implUseCase) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return uc.shards[h.Sum32()%uint32(len(uc.shards))]
}
