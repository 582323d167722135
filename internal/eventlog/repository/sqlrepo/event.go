package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/eventlog"
	repo "conversational-commerce/internal/eventlog/repository"
)

// Append inserts e; the UNIQUE(dedup_key) constraint makes dedup and insert one statement.
func (r *implRepository) Append(ctx context.Context, e eventlog.Event) (eventlog.Event, error) {
	e, err := repo.Prepare(e, r.now())
	if err != nil {
		return eventlog.Event{}, err
	}

	ctx, span := r.tracer.Start(ctx, "eventlog.Append", trace.WithAttributes(
		attribute.String("event.kind", string(e.Kind)),
		attribute.String("event.dedup_key", e.DedupKey),
	))
	defer span.End()

	payload, err := json.Marshal(toPayloadDoc(e))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal payload")
		return eventlog.Event{}, repo.ErrFailedToInsert
	}

	query := r.db.Rebind(`
		INSERT INTO events (id, kind, dedup_key, conversation_id, user_id, occurred_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (dedup_key) DO NOTHING
		RETURNING seq`)

	err = r.db.QueryRowContext(ctx, query,
		e.ID, string(e.Kind), nullable(e.DedupKey), nullable(e.ConversationID), nullable(e.UserID),
		e.OccurredAt.UnixMicro(), string(payload),
	).Scan(&e.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetAttributes(attribute.Bool("event.duplicate", true))
		r.metrics.RecordAppend(string(e.Kind), "duplicate")
		return eventlog.Event{}, eventlog.ErrDuplicate
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Append"), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert")
		r.metrics.RecordAppend(string(e.Kind), "error")
		return eventlog.Event{}, repo.ErrFailedToInsert
	}

	r.metrics.RecordAppend(string(e.Kind), "appended")
	return e, nil
}

// List returns matching events ordered by seq.
func (r *implRepository) List(ctx context.Context, opt repo.ListOptions) ([]eventlog.Event, error) {
	ctx, span := r.tracer.Start(ctx, "eventlog.List")
	defer span.End()

	where, args := buildListQuery(opt)
	query := r.db.Rebind(`
		SELECT seq, id, kind, dedup_key, conversation_id, user_id, occurred_at, payload
		FROM events WHERE ` + where + ` ORDER BY seq`)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("List"), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "query")
		return nil, repo.ErrFailedToList
	}
	defer rows.Close()

	var out []eventlog.Event
	for rows.Next() {
		var (
			e                 eventlog.Event
			kind              string
			dedup, conv, user sql.NullString
			occurredAt        int64
			payload           string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &kind, &dedup, &conv, &user, &occurredAt, &payload); err != nil {
			r.l.Errorf(ctx, "%s scan: %v", r.dsn("List"), err)
			return nil, repo.ErrFailedToList
		}
		e.Kind = eventlog.Kind(kind)
		e.DedupKey, e.ConversationID, e.UserID = dedup.String, conv.String, user.String
		e.OccurredAt = time.UnixMicro(occurredAt).UTC()

		var doc payloadDoc
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			r.l.Warnf(ctx, "%s: skipping event %s with corrupt payload: %v", r.dsn("List"), e.ID, err)
			continue
		}
		doc.apply(&e)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		r.l.Errorf(ctx, "%s rows: %v", r.dsn("List"), err)
		return nil, repo.ErrFailedToList
	}

	span.SetAttributes(attribute.Int("events.count", len(out)))
	return out, nil
}

func (r *implRepository) Exists(ctx context.Context, dedupKey string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT 1 FROM events WHERE dedup_key = ? LIMIT 1`), dedupKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Exists"), err)
		return false, repo.ErrFailedToList
	}
	return true, nil
}

func (r *implRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Count"), err)
		return 0, repo.ErrFailedToCount
	}
	return n, nil
}

func (r *implRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *implRepository) Close() error {
	return r.db.Close()
}
