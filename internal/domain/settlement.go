package domain

import "time"

// SettlementStatus is the lifecycle state of a settlement.
//
// The state machine is closed: pending -> confirmed and pending -> cancelled
// are the only legal transitions, both terminal. Confirmed settlements have
// conceptually moved money and are never altered; cancelled ones were
// superseded by a newer recomputation.
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "pending"
	SettlementStatusConfirmed SettlementStatus = "confirmed"
	SettlementStatusCancelled SettlementStatus = "cancelled"
)

// CanTransitionTo reports whether the status change is legal.
func (s SettlementStatus) CanTransitionTo(next SettlementStatus) bool {
	if s != SettlementStatusPending {
		return false
	}
	return next == SettlementStatusConfirmed || next == SettlementStatusCancelled
}

// Settlement is a suggested or confirmed payment from PayerID to PayeeID
// that reduces net balances toward zero. Settlements are never deleted;
// recomputation cancels stale pendings and inserts fresh ones.
type Settlement struct {
	ID        string
	GroupID   string
	PayerID   string
	PayeeID   string
	Amount    int64
	Status    SettlementStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks settlement invariants.
func (s *Settlement) Validate() error {
	if s.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
