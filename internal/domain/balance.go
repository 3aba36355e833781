package domain

import "fmt"

// ComputeBalances folds a group's expense history and confirmed settlements
// into a net balance per member, in minor units. Positive means the group
// owes the member, negative means the member owes the group.
//
// It is a pure function of its inputs: no I/O, no mutation of arguments.
// For any well-formed input the returned balances sum to exactly zero.
//
// Only confirmed settlements move balance; pending and cancelled ones are
// suggestions and must not be passed in.
func ComputeBalances(roster Roster, expenses []*SplitExpense, confirmed []*Settlement) (map[string]int64, error) {
	balances := make(map[string]int64, len(roster))
	for _, id := range roster {
		balances[id] = 0
	}

	for _, e := range expenses {
		if err := checkExpense(e, roster); err != nil {
			return nil, err
		}

		// The payer fronted the full amount; each split member owes their
		// share. The payer's own share nets against their credit.
		balances[e.PayerID] += e.Amount
		for _, s := range e.Shares {
			balances[s.MemberID] -= s.Amount
		}
	}

	for _, s := range confirmed {
		if s.Status != SettlementStatusConfirmed {
			return nil, fmt.Errorf("%w: settlement %s has status %s", ErrMalformedExpense, s.ID, s.Status)
		}

		// The payer handed real money to the payee, reducing what they owed.
		balances[s.PayerID] += s.Amount
		balances[s.PayeeID] -= s.Amount
	}

	return balances, nil
}

func checkExpense(e *SplitExpense, roster Roster) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: expense %s has non-positive amount %d", ErrMalformedExpense, e.ID, e.Amount)
	}

	if !roster.Contains(e.PayerID) {
		return fmt.Errorf("%w: expense %s payer %s not in roster", ErrMalformedExpense, e.ID, e.PayerID)
	}

	var sum int64
	for _, s := range e.Shares {
		if s.Amount < 0 {
			return fmt.Errorf("%w: expense %s has negative share for %s", ErrMalformedExpense, e.ID, s.MemberID)
		}

		if !roster.Contains(s.MemberID) {
			return fmt.Errorf("%w: expense %s references member %s outside roster", ErrMalformedExpense, e.ID, s.MemberID)
		}

		sum += s.Amount
	}

	if sum != e.Amount {
		return fmt.Errorf("%w: expense %s shares sum to %d, total is %d", ErrMalformedExpense, e.ID, sum, e.Amount)
	}

	return nil
}
