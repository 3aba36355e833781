package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/infrastructure/metrics"
)

// ExpenseUseCase handles split-expense business logic.
type ExpenseUseCase struct {
	txManager   TransactionManager
	groupRepo   GroupRepository
	memberRepo  MemberRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	reconciler  *Reconciler
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	reconciler *Reconciler,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		reconciler:  reconciler,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// AddExpenseInput represents input for recording a split expense.
// For an equal split, SplitMemberIDs names the participants and shares are
// computed server-side. For a custom split, Shares must sum to Amount.
type AddExpenseInput struct {
	GroupID        string
	PayerID        string
	Description    string
	Category       string
	Amount         int64
	SplitType      domain.SplitType
	SplitMemberIDs []string
	Shares         []domain.Share
	Date           time.Time
}

// AddExpense appends an immutable expense to the group ledger and
// regenerates the group's suggested settlements, all under the group's
// exclusive lock. Retryable conflicts are retried with backoff; persistent
// contention surfaces as ErrConcurrentModification.
func (uc *ExpenseUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.SplitExpense, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.Amount > MaxExpenseAmount {
		return nil, fmt.Errorf("%w: maximum is %d minor units", domain.ErrInvalidAmount, MaxExpenseAmount)
	}

	var expense *domain.SplitExpense
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		expense, err = uc.addExpenseOnce(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.Inc()
		uc.metrics.ExpenseAmount.Observe(float64(input.Amount))
	}

	return expense, nil
}

func (uc *ExpenseUseCase) addExpenseOnce(ctx context.Context, input AddExpenseInput) (*domain.SplitExpense, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	group, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, input.GroupID)
	if err != nil {
		return nil, err
	}

	members, err := uc.memberRepo.ListByGroupTx(txCtx, tx, group.ID)
	if err != nil {
		return nil, err
	}
	roster := rosterOf(members)

	shares, splitType, err := buildShares(input, roster)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	expense := &domain.SplitExpense{
		ID:          uc.idGen.Generate(),
		GroupID:     group.ID,
		PayerID:     input.PayerID,
		Description: input.Description,
		Category:    input.Category,
		Amount:      input.Amount,
		SplitType:   splitType,
		Shares:      shares,
		Date:        date,
		CreatedAt:   now,
	}

	if err := expense.Validate(roster); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Append(txCtx, tx, expense); err != nil {
		return nil, err
	}

	suggestions, _, err := uc.reconciler.Reconcile(txCtx, tx, group)
	if err != nil {
		return nil, err
	}

	version, err := uc.groupRepo.BumpVersion(txCtx, tx, group.ID, now)
	if err != nil {
		return nil, err
	}

	events := []*domain.OutboxEvent{
		{
			ID:            uc.idGen.Generate(),
			AggregateID:   expense.ID,
			AggregateType: domain.AggregateTypeExpense,
			EventType:     domain.EventTypeExpenseRecorded,
			Payload: map[string]any{
				"expense_id": expense.ID,
				"group_id":   group.ID,
				"payer_id":   expense.PayerID,
				"amount":     expense.Amount,
			},
			CreatedAt: now,
		},
		{
			ID:            uc.idGen.Generate(),
			AggregateID:   group.ID,
			AggregateType: domain.AggregateTypeGroup,
			EventType:     domain.EventTypeSettlementsRegenerated,
			Payload: map[string]any{
				"group_id":    group.ID,
				"version":     version,
				"suggestions": len(suggestions),
			},
			CreatedAt: now,
		},
	}
	for _, event := range events {
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return expense, nil
}

// buildShares resolves the split input into exact per-member shares.
func buildShares(input AddExpenseInput, roster domain.Roster) ([]domain.Share, domain.SplitType, error) {
	switch input.SplitType {
	case domain.SplitTypeCustom:
		return input.Shares, domain.SplitTypeCustom, nil
	case domain.SplitTypeEqual, "":
		if len(input.SplitMemberIDs) == 0 {
			return nil, domain.SplitTypeEqual, domain.ErrEmptySplit
		}
		for _, id := range input.SplitMemberIDs {
			if !roster.Contains(id) {
				return nil, domain.SplitTypeEqual, fmt.Errorf("%w: member %s", domain.ErrMemberNotInRoster, id)
			}
		}
		return domain.EqualShares(input.Amount, input.PayerID, input.SplitMemberIDs), domain.SplitTypeEqual, nil
	default:
		return nil, input.SplitType, fmt.Errorf("%w: unknown split type %q", domain.ErrEmptySplit, input.SplitType)
	}
}

// ListExpenses returns the group's full expense history, oldest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, groupID string) ([]*domain.SplitExpense, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.expenseRepo.ListByGroup(ctx, groupID)
}
