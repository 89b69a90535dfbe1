package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface repositories run against. *pgxpool.Pool,
// pgx.Tx and pgxmock pools all satisfy it, so the same repository can
// serve reads on the shared pool and writes inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxManager runs a function inside one database transaction. Any error
// (or panic) rolls the whole transaction back; partial state is never
// committed.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, db DB) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager wraps a pgx pool as a TxManager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, db DB) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// Rollback after Commit is a no-op error; ignore it.
		_ = tx.Rollback(ctx)
	}()
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, the signal used for idempotency-key and ledger-debit
// replays.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
