package domain

import (
	"fmt"
	"time"
)

// SplitType describes how an expense was divided among members.
type SplitType string

const (
	SplitTypeEqual  SplitType = "equal"
	SplitTypeCustom SplitType = "custom"
)

// Share is one member's portion of a split expense, in minor units.
type Share struct {
	MemberID string
	Amount   int64
}

// SplitExpense is one shared cost with a designated payer and per-member
// shares. All amounts are integer minor units. Expenses are immutable once
// recorded; corrections are new adjusting expenses, never in-place edits.
type SplitExpense struct {
	ID          string
	GroupID     string
	PayerID     string
	Description string
	Category    string
	Amount      int64
	SplitType   SplitType
	Shares      []Share
	Date        time.Time
	CreatedAt   time.Time
}

// Validate checks the expense against the group roster at recording time.
// Shares must be non-negative and sum exactly to the total.
func (e *SplitExpense) Validate(roster Roster) error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}

	if len(e.Shares) == 0 {
		return ErrEmptySplit
	}

	if !roster.Contains(e.PayerID) {
		return fmt.Errorf("%w: payer %s", ErrMemberNotInRoster, e.PayerID)
	}

	var sum int64
	for _, s := range e.Shares {
		if s.Amount < 0 {
			return fmt.Errorf("%w: member %s", ErrNegativeShare, s.MemberID)
		}

		if !roster.Contains(s.MemberID) {
			return fmt.Errorf("%w: member %s", ErrMemberNotInRoster, s.MemberID)
		}

		sum += s.Amount
	}

	if sum != e.Amount {
		return fmt.Errorf("%w: shares sum to %d, total is %d", ErrShareSumMismatch, sum, e.Amount)
	}

	return nil
}

// EqualShares divides total evenly among members, assigning the rounding
// remainder to the payer so shares always sum exactly to total. If the payer
// is not among the split members the remainder goes to the first member.
func EqualShares(total int64, payerID string, memberIDs []string) []Share {
	n := int64(len(memberIDs))
	if n == 0 {
		return nil
	}

	base := total / n
	remainder := total - base*n

	remainderTo := memberIDs[0]
	for _, id := range memberIDs {
		if id == payerID {
			remainderTo = id
			break
		}
	}

	shares := make([]Share, 0, n)
	for _, id := range memberIDs {
		amount := base
		if id == remainderTo {
			amount += remainder
		}
		shares = append(shares, Share{MemberID: id, Amount: amount})
	}

	return shares
}
