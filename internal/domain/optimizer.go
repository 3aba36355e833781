package domain

import (
	"container/heap"
	"fmt"
)

// SettlementProposal is one suggested payment produced by the optimizer.
// Proposals carry no identity or status; the caller materializes them into
// pending Settlement records.
type SettlementProposal struct {
	PayerID string
	PayeeID string
	Amount  int64
}

// OptimizeSettlements reduces a zero-sum balance map to a small set of
// point-to-point payments using greedy largest-pair matching: repeatedly pay
// the largest creditor from the largest debtor until everyone is at zero.
//
// The result is deterministic (equal magnitudes break ties by member ID
// ascending) and bounded by n-1 payments for n non-zero-balance members.
// It is not guaranteed to be the global minimum, which is NP-hard to find;
// the bound is the documented trade-off.
//
// Returns ErrUnbalancedInput if the balances do not sum to exactly zero.
// That means the balance computation upstream is broken, not that the caller
// passed bad user input.
func OptimizeSettlements(balances map[string]int64) ([]SettlementProposal, error) {
	var sum int64
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: sum is %d", ErrUnbalancedInput, sum)
	}

	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for id, b := range balances {
		switch {
		case b > 0:
			creditors.parties = append(creditors.parties, party{id: id, amount: b})
		case b < 0:
			debtors.parties = append(debtors.parties, party{id: id, amount: -b})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var proposals []SettlementProposal
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		amount := min(creditor.amount, debtor.amount)
		proposals = append(proposals, SettlementProposal{
			PayerID: debtor.id,
			PayeeID: creditor.id,
			Amount:  amount,
		})

		if creditor.amount > amount {
			heap.Push(creditors, party{id: creditor.id, amount: creditor.amount - amount})
		}
		if debtor.amount > amount {
			heap.Push(debtors, party{id: debtor.id, amount: debtor.amount - amount})
		}
	}

	return proposals, nil
}

type party struct {
	id     string
	amount int64
}

// partyHeap orders parties by amount descending, then by ID ascending so
// equal magnitudes settle in a stable order.
type partyHeap struct {
	parties []party
}

func (h *partyHeap) Len() int { return len(h.parties) }

func (h *partyHeap) Less(i, j int) bool {
	if h.parties[i].amount != h.parties[j].amount {
		return h.parties[i].amount > h.parties[j].amount
	}
	return h.parties[i].id < h.parties[j].id
}

func (h *partyHeap) Swap(i, j int) {
	h.parties[i], h.parties[j] = h.parties[j], h.parties[i]
}

func (h *partyHeap) Push(x any) {
	h.parties = append(h.parties, x.(party))
}

func (h *partyHeap) Pop() any {
	old := h.parties
	n := len(old)
	p := old[n-1]
	h.parties = old[:n-1]
	return p
}
