package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create creates a new member.
func (r *MemberRepository) Create(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO members (id, group_id, name, removed, joined_at)
		VALUES ($1, $2, $3, $4, $5)`,
		member.ID, member.GroupID, member.Name, member.Removed, member.JoinedAt,
	)
	return err
}

// ListByGroup lists a group's members ordered by join time, removed members
// included so their balances stay visible.
func (r *MemberRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Member, error) {
	return listMembers(ctx, r.pool, groupID)
}

// ListByGroupTx is ListByGroup inside a transaction.
func (r *MemberRepository) ListByGroupTx(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.Member, error) {
	return listMembers(ctx, txQueryer(tx), groupID)
}

// MarkRemoved flags a member as removed, keeping the row.
func (r *MemberRepository) MarkRemoved(ctx context.Context, tx usecase.Transaction, memberID string, updatedAt time.Time) error {
	tag, err := txQueryer(tx).Exec(ctx, `
		UPDATE members SET removed = TRUE WHERE id = $1`, memberID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func listMembers(ctx context.Context, q queryer, groupID string) ([]*domain.Member, error) {
	rows, err := q.Query(ctx, `
		SELECT id, group_id, name, removed, joined_at
		FROM members WHERE group_id = $1 ORDER BY joined_at, id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.Removed, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}
