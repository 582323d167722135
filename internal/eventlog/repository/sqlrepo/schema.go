package sqlrepo

import (
	"context"
	"fmt"

	"conversational-commerce/pkg/sqldb"
)

// occurred_at holds unix microseconds (UTC) so range filters compare the same
// way on both dialects.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		seq             BIGSERIAL PRIMARY KEY,
		id              TEXT NOT NULL UNIQUE,
		kind            TEXT NOT NULL,
		dedup_key       TEXT UNIQUE,
		conversation_id TEXT,
		user_id         TEXT,
		occurred_at     BIGINT NOT NULL,
		payload         TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events (occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_conversation ON events (conversation_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		seq             INTEGER PRIMARY KEY AUTOINCREMENT,
		id              TEXT NOT NULL UNIQUE,
		kind            TEXT NOT NULL,
		dedup_key       TEXT UNIQUE,
		conversation_id TEXT,
		user_id         TEXT,
		occurred_at     INTEGER NOT NULL,
		payload         TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events (occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_conversation ON events (conversation_id)`,
}

// Migrate creates the events table and its indexes if they do not exist.
func Migrate(ctx context.Context, db *sqldb.DB) error {
	stmts := postgresSchema
	if db.Dialect == sqldb.DialectSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate events: %w", err)
		}
	}
	return nil
}
