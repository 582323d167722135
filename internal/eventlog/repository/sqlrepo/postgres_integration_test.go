//go:build integration

package sqlrepo_test

import (
	"context"
	"testing"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/eventlog/repository/repotest"
	"conversational-commerce/internal/eventlog/repository/sqlrepo"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/sqldb"
)

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("commerce"),
		tcpostgres.WithUsername("commerce"),
		tcpostgres.WithPassword("commerce"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("skip: cannot start postgres: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	db, err := sqldb.Open(ctx, dsn, sqldb.Options{MaxOpenConns: 8})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqlrepo.Migrate(ctx, db); err != nil {
		t.Fatal(err)
	}

	repotest.Run(t, func(t *testing.T) repository.Repository {
		if _, err := db.ExecContext(ctx, `TRUNCATE events RESTART IDENTITY`); err != nil {
			t.Fatal(err)
		}
		return sqlrepo.New(db, log.NewNop(), nil)
	})
}
