package usecase

import (
	"context"
	"time"

	"github.com/divvyup/divvy/internal/domain"
)

// GroupRepository defines data access for groups.
type GroupRepository interface {
	Create(ctx context.Context, tx Transaction, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	// GetByIDForUpdate takes the per-group exclusive lock. Every
	// read-modify-write on group-scoped state goes through it.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Group, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Group, error)
	// BumpVersion increments the group's balance version counter and
	// returns the new value.
	BumpVersion(ctx context.Context, tx Transaction, id string, updatedAt time.Time) (int64, error)
}

// MemberRepository defines data access for group members.
type MemberRepository interface {
	Create(ctx context.Context, tx Transaction, member *domain.Member) error
	ListByGroup(ctx context.Context, groupID string) ([]*domain.Member, error)
	ListByGroupTx(ctx context.Context, tx Transaction, groupID string) ([]*domain.Member, error)
	// MarkRemoved flags a member as removed without deleting the row, so
	// historical balances survive until settled.
	MarkRemoved(ctx context.Context, tx Transaction, memberID string, updatedAt time.Time) error
}

// ExpenseRepository defines data access for split expenses. The expense log
// is append-only; there is no update or delete.
type ExpenseRepository interface {
	Append(ctx context.Context, tx Transaction, expense *domain.SplitExpense) error
	ListByGroup(ctx context.Context, groupID string) ([]*domain.SplitExpense, error)
	ListByGroupTx(ctx context.Context, tx Transaction, groupID string) ([]*domain.SplitExpense, error)
}

// SettlementRepository defines data access for settlements.
type SettlementRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, settlements []*domain.Settlement) error
	GetByID(ctx context.Context, id string) (*domain.Settlement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Settlement, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error)
	ListByGroupAndStatus(ctx context.Context, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	ListByGroupAndStatusTx(ctx context.Context, tx Transaction, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.SettlementStatus, updatedAt time.Time) error
	// CancelPending marks every pending settlement of the group cancelled
	// and returns how many rows it touched.
	CancelPending(ctx context.Context, tx Transaction, groupID string, updatedAt time.Time) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// BalanceCache caches computed balances keyed by group and balance version.
// A version bump implicitly invalidates older entries.
type BalanceCache interface {
	Get(ctx context.Context, groupID string, version int64) (map[string]int64, bool, error)
	Set(ctx context.Context, groupID string, version int64, balances map[string]int64, ttl time.Duration) error
}

// Retrier retries an operation that failed with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
