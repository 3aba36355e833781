package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/divvyup/divvy/internal/domain"
)

// BalanceUseCase serves net balance reads and the zero-sum consistency
// check. Reads run on MVCC snapshots without the group lock; the balance
// version counter keys the cache so a stale entry can never be served for a
// newer ledger.
type BalanceUseCase struct {
	groupRepo      GroupRepository
	memberRepo     MemberRepository
	expenseRepo    ExpenseRepository
	settlementRepo SettlementRepository
	cache          BalanceCache
	logger         zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	groupRepo GroupRepository,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	settlementRepo SettlementRepository,
	cache BalanceCache,
	logger zerolog.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		groupRepo:      groupRepo,
		memberRepo:     memberRepo,
		expenseRepo:    expenseRepo,
		settlementRepo: settlementRepo,
		cache:          cache,
		logger:         logger,
	}
}

// GetBalances returns each member's net balance in minor units. Positive
// means the group owes the member, negative means the member owes the group.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, groupID string) (map[string]int64, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		balances, ok, err := uc.cache.Get(ctx, group.ID, group.Version)
		if err != nil {
			uc.logger.Warn().Err(err).Str("group_id", group.ID).Msg("balance cache read failed")
		} else if ok {
			return balances, nil
		}
	}

	balances, err := uc.computeFromLedger(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, group.ID, group.Version, balances, BalanceCacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("group_id", group.ID).Msg("balance cache write failed")
		}
	}

	return balances, nil
}

func (uc *BalanceUseCase) computeFromLedger(ctx context.Context, groupID string) (map[string]int64, error) {
	members, err := uc.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	confirmed, err := uc.settlementRepo.ListByGroupAndStatus(ctx, groupID, domain.SettlementStatusConfirmed)
	if err != nil {
		return nil, err
	}

	return domain.ComputeBalances(rosterOf(members), expenses, confirmed)
}

// ConsistencyResult reports the outcome of a group zero-sum check.
type ConsistencyResult struct {
	GroupID    string
	Consistent bool
	Sum        int64
	Members    int
}

// CheckConsistency verifies the group's net balances sum to exactly zero.
// A non-zero sum means the ledger is corrupt; it is logged with the full
// balance snapshot.
func (uc *BalanceUseCase) CheckConsistency(ctx context.Context, groupID string) (*ConsistencyResult, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := uc.computeFromLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, b := range balances {
		sum += b
	}

	result := &ConsistencyResult{
		GroupID:    groupID,
		Consistent: sum == 0,
		Sum:        sum,
		Members:    len(balances),
	}

	if !result.Consistent {
		uc.logger.Error().
			Str("group_id", groupID).
			Int64("sum", sum).
			Interface("balances", balances).
			Msg("group ledger failed zero-sum check")
	}

	return result, nil
}
