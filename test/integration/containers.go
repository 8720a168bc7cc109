// Package integration menjalankan repo terhadap Postgres sungguhan lewat
// testcontainers. Aktifkan dengan RUN_INTEGRATION=1.
package integration

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgdb "github.com/cahaya-atk/storefront/internal/postgres"
)

type Env struct {
	PG    *postgres.PostgresContainer
	PGURL string
	Pool  *pgxpool.Pool
}

func Setup(ctx context.Context) (*Env, error) {
	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, err
	}

	pool, err := pgdb.Connect(ctx, url)
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, err
	}
	if err := pgdb.Migrate(ctx, pool); err != nil {
		pool.Close()
		_ = pgC.Terminate(ctx)
		return nil, err
	}

	return &Env{PG: pgC, PGURL: url, Pool: pool}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	if e.Pool != nil {
		e.Pool.Close()
	}
	_ = e.PG.Terminate(ctx)
}
