package sqlrepo_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/eventlog/repository/repotest"
	"conversational-commerce/internal/eventlog/repository/sqlrepo"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/sqldb"
)

var dbSeq atomic.Int64

func newSQLite(t *testing.T) repository.Repository {
	t.Helper()
	ctx := context.Background()

	url := fmt.Sprintf("sqlite:file:eventlog_%d?mode=memory", dbSeq.Add(1))
	db, err := sqldb.Open(ctx, url, sqldb.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Migrate is idempotent.
	if err := sqlrepo.Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	return sqlrepo.New(db, log.NewNop(), nil)
}

func TestSQLiteRepository(t *testing.T) {
	repotest.Run(t, newSQLite)
}

func TestSQLiteRepository_Ping(t *testing.T) {
	r := newSQLite(t)
	if err := r.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
