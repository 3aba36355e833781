package usecase

import (
	"context"
	"time"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/infrastructure/metrics"
)

// SettlementUseCase manages the settlement lifecycle.
type SettlementUseCase struct {
	txManager      TransactionManager
	groupRepo      GroupRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	reconciler     *Reconciler
	idGen          IDGenerator
	retrier        Retrier
	metrics        *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	reconciler *Reconciler,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		groupRepo:      groupRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		reconciler:     reconciler,
		idGen:          idGen,
		retrier:        retrier,
		metrics:        metrics,
	}
}

// GetSuggestedSettlements returns the group's current pending suggestions.
func (uc *SettlementUseCase) GetSuggestedSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.settlementRepo.ListByGroupAndStatus(ctx, groupID, domain.SettlementStatusPending)
}

// ListSettlements returns the group's full settlement history, every status.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.settlementRepo.ListByGroup(ctx, groupID)
}

// ConfirmSettlement transitions a pending settlement to confirmed and
// regenerates the remaining suggestions against the updated balances. The
// confirmation is durably committed before it is acknowledged.
//
// Confirming anything but a pending settlement fails with
// ErrSettlementNotPending; the caller should refetch current suggestions.
func (uc *SettlementUseCase) ConfirmSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	var confirmed *domain.Settlement
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		confirmed, err = uc.confirmOnce(ctx, settlementID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsConfirmed.Inc()
	}

	return confirmed, nil
}

func (uc *SettlementUseCase) confirmOnce(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Resolve the group first so the group lock is always taken before the
	// settlement row lock, same order as every other guarded operation.
	settlement, err := uc.settlementRepo.GetByID(txCtx, settlementID)
	if err != nil {
		return nil, err
	}

	group, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, settlement.GroupID)
	if err != nil {
		return nil, err
	}

	// Re-read under the lock; a concurrent recomputation may have cancelled
	// it between the lookup and the lock.
	settlement, err = uc.settlementRepo.GetByIDForUpdate(txCtx, tx, settlementID)
	if err != nil {
		return nil, err
	}

	if !settlement.Status.CanTransitionTo(domain.SettlementStatusConfirmed) {
		return nil, domain.ErrSettlementNotPending
	}

	now := time.Now().UTC()
	if err := uc.settlementRepo.UpdateStatus(txCtx, tx, settlement.ID, domain.SettlementStatusConfirmed, now); err != nil {
		return nil, err
	}
	settlement.Status = domain.SettlementStatusConfirmed
	settlement.UpdatedAt = now

	// The confirmed amount now moves real balance, so the remaining
	// suggestions are stale; regenerate them with the settlement folded in.
	if _, _, err := uc.reconciler.Reconcile(txCtx, tx, group); err != nil {
		return nil, err
	}

	version, err := uc.groupRepo.BumpVersion(txCtx, tx, group.ID, now)
	if err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   settlement.ID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementConfirmed,
		Payload: map[string]any{
			"settlement_id": settlement.ID,
			"group_id":      group.ID,
			"payer_id":      settlement.PayerID,
			"payee_id":      settlement.PayeeID,
			"amount":        settlement.Amount,
			"version":       version,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return settlement, nil
}

// RecomputeSettlements discards the group's pending suggestions and rebuilds
// them from the ledger. Idempotent on an unchanged ledger.
func (uc *SettlementUseCase) RecomputeSettlements(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	var suggestions []*domain.Settlement
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		suggestions, err = uc.recomputeOnce(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsSuggested.Add(float64(len(suggestions)))
	}

	return suggestions, nil
}

func (uc *SettlementUseCase) recomputeOnce(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	group, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, groupID)
	if err != nil {
		return nil, err
	}

	suggestions, _, err := uc.reconciler.Reconcile(txCtx, tx, group)
	if err != nil {
		return nil, err
	}

	if _, err := uc.groupRepo.BumpVersion(txCtx, tx, group.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return suggestions, nil
}
