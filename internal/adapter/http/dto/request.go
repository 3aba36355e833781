package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() usecase.CreateGroupInput {
	return usecase.CreateGroupInput{
		Name:        r.Name,
		Description: r.Description,
		MemberNames: r.Members,
	}
}

// AddMemberRequest represents a request to add a member to a group.
type AddMemberRequest struct {
	Name string `json:"name"`
}

// ShareItem is one member's share in a custom split.
type ShareItem struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// AddExpenseRequest represents a request to record a split expense.
// For an equal split, split_members lists the participants; for a custom
// split, shares gives exact per-member amounts that must sum to amount.
type AddExpenseRequest struct {
	PayerID      string          `json:"payer_id"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	SplitType    string          `json:"split_type"`
	SplitMembers []string        `json:"split_members,omitempty"`
	Shares       []ShareItem     `json:"shares,omitempty"`
	Date         *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput(groupID string) (usecase.AddExpenseInput, error) {
	amount, err := ToMinorUnits(r.Amount)
	if err != nil {
		return usecase.AddExpenseInput{}, err
	}

	shares := make([]domain.Share, 0, len(r.Shares))
	for _, s := range r.Shares {
		minor, err := ToMinorUnits(s.Amount)
		if err != nil {
			return usecase.AddExpenseInput{}, err
		}
		shares = append(shares, domain.Share{MemberID: s.MemberID, Amount: minor})
	}

	input := usecase.AddExpenseInput{
		GroupID:        groupID,
		PayerID:        r.PayerID,
		Description:    r.Description,
		Category:       r.Category,
		Amount:         amount,
		SplitType:      domain.SplitType(r.SplitType),
		SplitMemberIDs: r.SplitMembers,
		Shares:         shares,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}

	return input, nil
}
