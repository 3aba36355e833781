package domain

import "testing"

func TestSettlementStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from SettlementStatus
		to   SettlementStatus
		want bool
	}{
		{name: "pending to confirmed", from: SettlementStatusPending, to: SettlementStatusConfirmed, want: true},
		{name: "pending to cancelled", from: SettlementStatusPending, to: SettlementStatusCancelled, want: true},
		{name: "confirmed is terminal", from: SettlementStatusConfirmed, to: SettlementStatusCancelled, want: false},
		{name: "confirmed cannot re-confirm", from: SettlementStatusConfirmed, to: SettlementStatusConfirmed, want: false},
		{name: "cancelled is terminal", from: SettlementStatusCancelled, to: SettlementStatusConfirmed, want: false},
		{name: "pending cannot loop to pending", from: SettlementStatusPending, to: SettlementStatusPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSettlement_Validate(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		expectError error
	}{
		{name: "positive amount", amount: 100, expectError: nil},
		{name: "zero amount", amount: 0, expectError: ErrInvalidAmount},
		{name: "negative amount", amount: -5, expectError: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settlement{PayerID: "bob", PayeeID: "alice", Amount: tt.amount}

			err := s.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && err != tt.expectError {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}
