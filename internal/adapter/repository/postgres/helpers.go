package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx, so each query can
// run pooled or inside a transaction.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txQueryer unwraps the usecase transaction to its pgx.Tx.
func txQueryer(tx usecase.Transaction) pgx.Tx {
	return tx.(*Tx).PgxTx()
}

// translateLockError maps a lock wait timeout onto the retryable
// concurrent-modification error; other errors pass through.
func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrLockNotAvailable {
		return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, err)
	}
	return err
}
