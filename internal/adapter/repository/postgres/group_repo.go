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

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const groupColumns = "id, name, description, version, created_at, updated_at"

// Create creates a new group.
func (r *GroupRepository) Create(ctx context.Context, tx usecase.Transaction, group *domain.Group) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO groups (id, name, description, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.Description, group.Version, group.CreatedAt, group.UpdatedAt,
	)
	return err
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return scanGroup(r.pool.QueryRow(ctx, `
		SELECT `+groupColumns+` FROM groups WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves a group with a FOR UPDATE row lock. This is the
// per-group exclusive scope: the row lock serializes every balance-affecting
// operation on the group, while the transaction's lock_timeout bounds the
// wait.
func (r *GroupRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error) {
	group, err := scanGroup(txQueryer(tx).QueryRow(ctx, `
		SELECT `+groupColumns+` FROM groups WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return nil, err
		}
		return nil, translateLockError(err)
	}
	return group, nil
}

// List lists groups with pagination.
func (r *GroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+groupColumns+` FROM groups ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// BumpVersion increments the group's balance version counter.
func (r *GroupRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error) {
	var version int64
	err := txQueryer(tx).QueryRow(ctx, `
		UPDATE groups SET version = version + 1, updated_at = $2
		WHERE id = $1
		RETURNING version`,
		id, updatedAt,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrGroupNotFound
		}
		return 0, err
	}
	return version, nil
}

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Version, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}
