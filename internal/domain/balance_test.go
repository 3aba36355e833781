package domain

import (
	"errors"
	"testing"
)

func TestComputeBalances(t *testing.T) {
	roster := Roster{"alice", "bob", "carol"}

	tests := []struct {
		name      string
		roster    Roster
		expenses  []*SplitExpense
		confirmed []*Settlement
		want      map[string]int64
	}{
		{
			name:   "one expense split evenly",
			roster: roster,
			expenses: []*SplitExpense{
				{
					ID:      "exp-1",
					PayerID: "alice",
					Amount:  300,
					Shares: []Share{
						{MemberID: "alice", Amount: 100},
						{MemberID: "bob", Amount: 100},
						{MemberID: "carol", Amount: 100},
					},
				},
			},
			want: map[string]int64{"alice": 200, "bob": -100, "carol": -100},
		},
		{
			name:   "two expenses net against each other",
			roster: Roster{"alice", "bob"},
			expenses: []*SplitExpense{
				{
					ID:      "exp-1",
					PayerID: "alice",
					Amount:  50,
					Shares: []Share{
						{MemberID: "alice", Amount: 0},
						{MemberID: "bob", Amount: 50},
					},
				},
				{
					ID:      "exp-2",
					PayerID: "bob",
					Amount:  30,
					Shares: []Share{
						{MemberID: "alice", Amount: 30},
						{MemberID: "bob", Amount: 0},
					},
				},
			},
			want: map[string]int64{"alice": 20, "bob": -20},
		},
		{
			name:   "confirmed settlement folds into balances",
			roster: Roster{"alice", "bob"},
			expenses: []*SplitExpense{
				{
					ID:      "exp-1",
					PayerID: "alice",
					Amount:  50,
					Shares: []Share{
						{MemberID: "alice", Amount: 0},
						{MemberID: "bob", Amount: 50},
					},
				},
				{
					ID:      "exp-2",
					PayerID: "bob",
					Amount:  30,
					Shares: []Share{
						{MemberID: "alice", Amount: 30},
						{MemberID: "bob", Amount: 0},
					},
				},
				{
					ID:      "exp-3",
					PayerID: "bob",
					Amount:  20,
					Shares: []Share{
						{MemberID: "alice", Amount: 10},
						{MemberID: "bob", Amount: 10},
					},
				},
			},
			confirmed: []*Settlement{
				{ID: "set-1", PayerID: "bob", PayeeID: "alice", Amount: 20, Status: SettlementStatusConfirmed},
			},
			want: map[string]int64{"alice": 10, "bob": -10},
		},
		{
			name:     "empty ledger is all zeros",
			roster:   roster,
			expenses: nil,
			want:     map[string]int64{"alice": 0, "bob": 0, "carol": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.roster, tt.expenses, tt.confirmed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d balances, got %d", len(tt.want), len(got))
			}

			var sum int64
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("member %s: expected %d, got %d", id, want, got[id])
				}
				sum += got[id]
			}

			if sum != 0 {
				t.Errorf("balances sum to %d, want 0", sum)
			}
		})
	}
}

func TestComputeBalances_MalformedExpense(t *testing.T) {
	roster := Roster{"alice", "bob"}

	tests := []struct {
		name    string
		expense *SplitExpense
	}{
		{
			name: "shares do not sum to total",
			expense: &SplitExpense{
				ID:      "exp-bad",
				PayerID: "alice",
				Amount:  100,
				Shares:  []Share{{MemberID: "bob", Amount: 60}},
			},
		},
		{
			name: "share references member outside roster",
			expense: &SplitExpense{
				ID:      "exp-bad",
				PayerID: "alice",
				Amount:  100,
				Shares:  []Share{{MemberID: "mallory", Amount: 100}},
			},
		},
		{
			name: "payer outside roster",
			expense: &SplitExpense{
				ID:      "exp-bad",
				PayerID: "mallory",
				Amount:  100,
				Shares:  []Share{{MemberID: "bob", Amount: 100}},
			},
		},
		{
			name: "non-positive amount",
			expense: &SplitExpense{
				ID:      "exp-bad",
				PayerID: "alice",
				Amount:  0,
				Shares:  []Share{{MemberID: "bob", Amount: 0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBalances(roster, []*SplitExpense{tt.expense}, nil)
			if !errors.Is(err, ErrMalformedExpense) {
				t.Errorf("expected ErrMalformedExpense, got %v", err)
			}
		})
	}
}

func TestComputeBalances_RejectsNonConfirmedSettlement(t *testing.T) {
	roster := Roster{"alice", "bob"}
	settlements := []*Settlement{
		{ID: "set-1", PayerID: "bob", PayeeID: "alice", Amount: 20, Status: SettlementStatusPending},
	}

	_, err := ComputeBalances(roster, nil, settlements)
	if !errors.Is(err, ErrMalformedExpense) {
		t.Errorf("expected ErrMalformedExpense, got %v", err)
	}
}

func TestComputeBalances_RemovedMemberRetainsBalance(t *testing.T) {
	// A member removed from the group stays in the roster until settled.
	roster := Roster{"alice", "bob", "gone"}
	expenses := []*SplitExpense{
		{
			ID:      "exp-1",
			PayerID: "alice",
			Amount:  90,
			Shares: []Share{
				{MemberID: "alice", Amount: 30},
				{MemberID: "bob", Amount: 30},
				{MemberID: "gone", Amount: 30},
			},
		},
	}

	got, err := ComputeBalances(roster, expenses, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["gone"] != -30 {
		t.Errorf("removed member balance: expected -30, got %d", got["gone"])
	}
}
