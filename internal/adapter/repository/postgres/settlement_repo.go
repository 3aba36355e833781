package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository. Settlement
// rows are never deleted; superseded suggestions are marked cancelled.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

const settlementColumns = "id, group_id, payer_id, payee_id, amount, status, created_at, updated_at"

// CreateBatch inserts a batch of settlements.
func (r *SettlementRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, settlements []*domain.Settlement) error {
	q := txQueryer(tx)
	for _, s := range settlements {
		_, err := q.Exec(ctx, `
			INSERT INTO settlements (id, group_id, payer_id, payee_id, amount, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.ID, s.GroupID, s.PayerID, s.PayeeID, s.Amount, string(s.Status), s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a settlement by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	return scanSettlement(r.pool.QueryRow(ctx, `
		SELECT `+settlementColumns+` FROM settlements WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a settlement with a FOR UPDATE row lock.
func (r *SettlementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Settlement, error) {
	s, err := scanSettlement(txQueryer(tx).QueryRow(ctx, `
		SELECT `+settlementColumns+` FROM settlements WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, domain.ErrSettlementNotFound) {
			return nil, err
		}
		return nil, translateLockError(err)
	}
	return s, nil
}

// ListByGroup lists every settlement of a group, oldest first.
func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+settlementColumns+` FROM settlements
		WHERE group_id = $1 ORDER BY created_at, id`, groupID)
	if err != nil {
		return nil, err
	}
	return collectSettlements(rows)
}

// ListByGroupAndStatus lists a group's settlements with the given status.
func (r *SettlementRepository) ListByGroupAndStatus(ctx context.Context, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	return listSettlementsByStatus(ctx, r.pool, groupID, status)
}

// ListByGroupAndStatusTx is ListByGroupAndStatus inside a transaction.
func (r *SettlementRepository) ListByGroupAndStatusTx(ctx context.Context, tx usecase.Transaction, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	return listSettlementsByStatus(ctx, txQueryer(tx), groupID, status)
}

// UpdateStatus transitions a settlement's status. The WHERE clause enforces
// the state machine at the storage layer too: only a pending row can move.
func (r *SettlementRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.SettlementStatus, updatedAt time.Time) error {
	tag, err := txQueryer(tx).Exec(ctx, `
		UPDATE settlements SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSettlementNotPending
	}
	return nil
}

// CancelPending cancels every pending settlement of the group.
func (r *SettlementRepository) CancelPending(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error) {
	tag, err := txQueryer(tx).Exec(ctx, `
		UPDATE settlements SET status = 'cancelled', updated_at = $2
		WHERE group_id = $1 AND status = 'pending'`,
		groupID, updatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func listSettlementsByStatus(ctx context.Context, q queryer, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	rows, err := q.Query(ctx, `
		SELECT `+settlementColumns+` FROM settlements
		WHERE group_id = $1 AND status = $2 ORDER BY created_at, id`,
		groupID, string(status))
	if err != nil {
		return nil, err
	}
	return collectSettlements(rows)
}

func collectSettlements(rows pgx.Rows) ([]*domain.Settlement, error) {
	defer rows.Close()

	var settlements []*domain.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var s domain.Settlement
	var status string
	err := row.Scan(&s.ID, &s.GroupID, &s.PayerID, &s.PayeeID, &s.Amount, &status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	s.Status = domain.SettlementStatus(status)
	return &s, nil
}
