package usecase

import "time"

// Log prefixes
const (
	LogPrefixRecordTurn   = "internal.conversation.usecase.RecordTurn"
	LogPrefixGetOrCreate  = "internal.conversation.usecase.GetOrCreate"
	LogPrefixEvictExpired = "internal.conversation.usecase.EvictExpired"
	LogPrefixSweeper      = "internal.conversation.usecase.Sweeper"
)

// Log messages
const (
	LogMsgContextsEvicted = "Evicted %d expired contexts (%d remaining)"
	LogMsgContextCreated  = "Created conversation %s for user %s"
	LogMsgContextRestored = "Restored conversation %s for user %s"
)

// Eviction reasons
const (
	ReasonTTL      = "ttl"
	ReasonManual   = "manual"
	ReasonReplaced = "replaced"
)

// Defaults
const (
	DefaultTTL           = 2 * time.Hour
	DefaultMaxTurns      = 5 // user+assistant exchanges
	DefaultShardCount    = 32
	DefaultSweepInterval = 5 * time.Minute

	MaxRecentSearches = 3
	MaxRecentProducts = 10
)
