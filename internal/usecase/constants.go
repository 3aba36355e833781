package usecase

import "time"

const (
	// DefaultTransactionTimeout caps how long a guarded read-modify-write may
	// hold the per-group lock. Exceeding it surfaces as a retryable
	// concurrent-modification error, never an indefinite block.
	DefaultTransactionTimeout = 10 * time.Second

	// MaxExpenseAmount is the maximum total for a single expense, in minor
	// units (one billion in a 2-decimal currency).
	MaxExpenseAmount int64 = 100_000_000_000

	// BalanceCacheTTL is how long cached balance snapshots live. Version
	// bumps invalidate them earlier.
	BalanceCacheTTL = 10 * time.Minute
)
