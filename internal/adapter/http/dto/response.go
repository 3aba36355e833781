package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromGroup converts a domain group to a response.
func FromGroup(g *domain.Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Version:     g.Version,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// FromGroups converts a slice of domain groups to responses.
func FromGroups(groups []*domain.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, FromGroup(g))
	}
	return out
}

// MemberResponse represents a group member in API responses.
type MemberResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Removed  bool      `json:"removed"`
	JoinedAt time.Time `json:"joined_at"`
}

// FromMember converts a domain member to a response.
func FromMember(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:       m.ID,
		Name:     m.Name,
		Removed:  m.Removed,
		JoinedAt: m.JoinedAt,
	}
}

// FromMembers converts a slice of domain members to responses.
func FromMembers(members []*domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, FromMember(m))
	}
	return out
}

// GroupDetailResponse is a group together with its roster.
type GroupDetailResponse struct {
	GroupResponse
	Members []MemberResponse `json:"members"`
}

// GroupSummaryResponse aggregates a group's spend for display.
type GroupSummaryResponse struct {
	GroupResponse
	Members      []MemberResponse `json:"members"`
	ExpenseCount int              `json:"expense_count"`
	TotalSpent   decimal.Decimal  `json:"total_spent"`
}

// FromGroupSummary converts a use case summary to a response.
func FromGroupSummary(s *usecase.GroupSummary) GroupSummaryResponse {
	return GroupSummaryResponse{
		GroupResponse: FromGroup(s.Group),
		Members:       FromMembers(s.Members),
		ExpenseCount:  s.ExpenseCount,
		TotalSpent:    FromMinorUnits(s.TotalSpent),
	}
}

// ShareResponse is one member's share of an expense.
type ShareResponse struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseResponse represents a split expense in API responses.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PayerID     string          `json:"payer_id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SplitType   string          `json:"split_type"`
	Shares      []ShareResponse `json:"shares"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FromExpense converts a domain expense to a response.
func FromExpense(e *domain.SplitExpense) ExpenseResponse {
	shares := make([]ShareResponse, 0, len(e.Shares))
	for _, s := range e.Shares {
		shares = append(shares, ShareResponse{
			MemberID: s.MemberID,
			Amount:   FromMinorUnits(s.Amount),
		})
	}
	return ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Description: e.Description,
		Category:    e.Category,
		Amount:      FromMinorUnits(e.Amount),
		SplitType:   string(e.SplitType),
		Shares:      shares,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

// FromExpenses converts a slice of domain expenses to responses.
func FromExpenses(expenses []*domain.SplitExpense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, FromExpense(e))
	}
	return out
}

// BalanceEntry is one member's net position: positive means the group owes
// the member, negative means the member owes the group.
type BalanceEntry struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// BalancesResponse lists a group's net balances, member ID ascending.
type BalancesResponse struct {
	GroupID  string         `json:"group_id"`
	Balances []BalanceEntry `json:"balances"`
}

// FromBalances converts a balance map to a response with stable ordering.
func FromBalances(groupID string, balances map[string]int64) BalancesResponse {
	entries := make([]BalanceEntry, 0, len(balances))
	for memberID, amount := range balances {
		entries = append(entries, BalanceEntry{
			MemberID: memberID,
			Amount:   FromMinorUnits(amount),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MemberID < entries[j].MemberID })

	return BalancesResponse{GroupID: groupID, Balances: entries}
}

// SettlementResponse represents a settlement in API responses.
type SettlementResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	PayerID   string          `json:"payer_id"`
	PayeeID   string          `json:"payee_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FromSettlement converts a domain settlement to a response.
func FromSettlement(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		ID:        s.ID,
		GroupID:   s.GroupID,
		PayerID:   s.PayerID,
		PayeeID:   s.PayeeID,
		Amount:    FromMinorUnits(s.Amount),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromSettlements converts a slice of domain settlements to responses.
func FromSettlements(settlements []*domain.Settlement) []SettlementResponse {
	out := make([]SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, FromSettlement(s))
	}
	return out
}

// ConsistencyResponse reports the outcome of a group zero-sum check.
type ConsistencyResponse struct {
	GroupID    string          `json:"group_id"`
	Consistent bool            `json:"consistent"`
	Sum        decimal.Decimal `json:"sum"`
	Members    int             `json:"members"`
}

// FromConsistency converts a use case consistency result to a response.
func FromConsistency(r *usecase.ConsistencyResult) ConsistencyResponse {
	return ConsistencyResponse{
		GroupID:    r.GroupID,
		Consistent: r.Consistent,
		Sum:        FromMinorUnits(r.Sum),
		Members:    r.Members,
	}
}

// ErrorResponse is the error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
