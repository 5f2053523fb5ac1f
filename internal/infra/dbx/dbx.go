package dbx

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools, so repositories
// can run against the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner opens transactions.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool is what repositories that own their transactions need.
type Pool interface {
	Querier
	Beginner
}
