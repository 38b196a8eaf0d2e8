package postgres

import (
	"context"
	"database/sql"
)

// Querier abstracts the query methods shared by *sql.DB and *sql.Tx, so
// ledger repositories can run against either without caring whether a
// transaction is in progress.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
