// Package sqlrepo stores the Event Log in PostgreSQL or SQLite through database/sql.
package sqlrepo

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
	"conversational-commerce/pkg/sqldb"
)

const tracerName = "conversational-commerce/eventlog"

type implRepository struct {
	db      *sqldb.DB
	l       log.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// New creates a SQL-backed Event Log. Call Migrate first.
func New(db *sqldb.DB, l log.Logger, m *metrics.Metrics) repository.Repository {
	if db == nil {
		panic("eventlog/repository/sqlrepo: db is required")
	}
	return &implRepository{
		db:      db,
		l:       l,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("eventlog/repository/sqlrepo.%s", method)
}
