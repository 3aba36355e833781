package domain

import "errors"

var (
	// Group errors
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrEmptyRoster    = errors.New("group must have at least one member")
	ErrInvalidName    = errors.New("name must not be empty")

	// Expense validation errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrEmptySplit        = errors.New("expense must have at least one split member")
	ErrShareSumMismatch  = errors.New("split shares do not sum to expense total")
	ErrNegativeShare     = errors.New("split share must not be negative")
	ErrMemberNotInRoster = errors.New("split member is not in the group roster")
	ErrAmountPrecision   = errors.New("amount has sub-minor-unit precision")
	ErrExpenseNotFound   = errors.New("expense not found")

	// Balance computation errors
	ErrMalformedExpense = errors.New("malformed expense in ledger")

	// Optimizer errors
	ErrUnbalancedInput = errors.New("balances do not sum to zero")

	// Settlement errors
	ErrSettlementNotFound   = errors.New("settlement not found")
	ErrSettlementNotPending = errors.New("settlement is not pending")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification of group")
)
