package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/domain"
)

// Reconciler regenerates a group's suggested settlements from its ledger.
// It must run inside a transaction that already holds the group's exclusive
// lock; both the expense and settlement use cases drive it.
type Reconciler struct {
	memberRepo     MemberRepository
	expenseRepo    ExpenseRepository
	settlementRepo SettlementRepository
	idGen          IDGenerator
	logger         zerolog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	settlementRepo SettlementRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		memberRepo:     memberRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		idGen:          idGen,
		logger:         logger,
	}
}

// Reconcile recomputes net balances from the full ledger, cancels every
// stale pending settlement and inserts fresh suggestions. Confirmed
// settlements are folded into the balances and never touched.
//
// Running it twice on an unchanged ledger yields the same multiset of
// (payer, payee, amount) tuples, under fresh IDs.
func (r *Reconciler) Reconcile(ctx context.Context, tx Transaction, group *domain.Group) ([]*domain.Settlement, map[string]int64, error) {
	members, err := r.memberRepo.ListByGroupTx(ctx, tx, group.ID)
	if err != nil {
		return nil, nil, err
	}

	expenses, err := r.expenseRepo.ListByGroupTx(ctx, tx, group.ID)
	if err != nil {
		return nil, nil, err
	}

	confirmed, err := r.settlementRepo.ListByGroupAndStatusTx(ctx, tx, group.ID, domain.SettlementStatusConfirmed)
	if err != nil {
		return nil, nil, err
	}

	balances, err := domain.ComputeBalances(rosterOf(members), expenses, confirmed)
	if err != nil {
		return nil, nil, err
	}

	proposals, err := domain.OptimizeSettlements(balances)
	if err != nil {
		// A non-zero sum here means the balance computation itself is
		// broken. Log the full snapshot for the postmortem; the caller
		// surfaces a generic internal error.
		r.logger.Error().
			Err(err).
			Str("group_id", group.ID).
			Interface("balances", balances).
			Int("expenses", len(expenses)).
			Int("confirmed_settlements", len(confirmed)).
			Msg("settlement optimizer received unbalanced input")
		return nil, nil, err
	}

	now := time.Now().UTC()
	if _, err := r.settlementRepo.CancelPending(ctx, tx, group.ID, now); err != nil {
		return nil, nil, err
	}

	settlements := make([]*domain.Settlement, 0, len(proposals))
	for _, p := range proposals {
		settlements = append(settlements, &domain.Settlement{
			ID:        r.idGen.Generate(),
			GroupID:   group.ID,
			PayerID:   p.PayerID,
			PayeeID:   p.PayeeID,
			Amount:    p.Amount,
			Status:    domain.SettlementStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(settlements) > 0 {
		if err := r.settlementRepo.CreateBatch(ctx, tx, settlements); err != nil {
			return nil, nil, err
		}
	}

	return settlements, balances, nil
}
