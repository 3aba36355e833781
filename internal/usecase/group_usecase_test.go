package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
	"github.com/divvyup/divvy/internal/usecase/mocks"
)

type groupFixture struct {
	uc          *usecase.GroupUseCase
	groupRepo   *mocks.MockGroupRepository
	memberRepo  *mocks.MockMemberRepository
	expenseRepo *mocks.MockExpenseRepository
	outboxRepo  *mocks.MockOutboxRepository
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()

	groupRepo := mocks.NewMockGroupRepository()
	memberRepo := mocks.NewMockMemberRepository()
	expenseRepo := mocks.NewMockExpenseRepository()
	outboxRepo := mocks.NewMockOutboxRepository()

	uc := usecase.NewGroupUseCase(
		&mocks.MockTransactionManager{},
		groupRepo,
		memberRepo,
		expenseRepo,
		outboxRepo,
		&mocks.MockIDGenerator{},
	)

	return &groupFixture{
		uc:          uc,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
	}
}

func TestGroupUseCase_CreateGroup(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, members, err := f.uc.CreateGroup(ctx, usecase.CreateGroupInput{
		Name:        "  ski trip  ",
		Description: "february",
		MemberNames: []string{"alice", "bob", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if group.Name != "ski trip" {
		t.Fatalf("expected trimmed name, got %q", group.Name)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members (blank dropped), got %d", len(members))
	}
	for _, m := range members {
		if m.GroupID != group.ID {
			t.Fatalf("member %s not linked to group", m.ID)
		}
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeGroupCreated {
		t.Fatalf("expected group.created event, got %+v", events)
	}
}

func TestGroupUseCase_CreateGroup_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateGroupInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   usecase.CreateGroupInput{Name: "   ", MemberNames: []string{"alice"}},
			wantErr: domain.ErrInvalidName,
		},
		{
			name:    "no members",
			input:   usecase.CreateGroupInput{Name: "trip"},
			wantErr: domain.ErrEmptyRoster,
		},
		{
			name:    "only blank members",
			input:   usecase.CreateGroupInput{Name: "trip", MemberNames: []string{"", "  "}},
			wantErr: domain.ErrEmptyRoster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGroupFixture(t)

			_, _, err := f.uc.CreateGroup(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGroupUseCase_AddMember(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, _, err := f.uc.CreateGroup(ctx, usecase.CreateGroupInput{
		Name:        "flat",
		MemberNames: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	member, err := f.uc.AddMember(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if member.Name != "bob" || member.GroupID != group.ID {
		t.Fatalf("unexpected member: %+v", member)
	}

	members, _ := f.uc.ListMembers(ctx, group.ID)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	if _, err := f.uc.AddMember(ctx, group.ID, "  "); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	if _, err := f.uc.AddMember(ctx, "missing", "carol"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestGroupUseCase_GetSummary(t *testing.T) {
	f := newGroupFixture(t)
	ctx := context.Background()

	group, members, err := f.uc.CreateGroup(ctx, usecase.CreateGroupInput{
		Name:        "flat",
		MemberNames: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, amount := range []int64{1200, 800} {
		_ = f.expenseRepo.Append(ctx, nil, &domain.SplitExpense{
			ID: "e", GroupID: group.ID, PayerID: members[0].ID, Amount: amount,
		})
	}

	summary, err := f.uc.GetSummary(ctx, group.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ExpenseCount != 2 {
		t.Fatalf("expected 2 expenses, got %d", summary.ExpenseCount)
	}
	if summary.TotalSpent != 2000 {
		t.Fatalf("expected total 2000, got %d", summary.TotalSpent)
	}
	if len(summary.Members) != 2 {
		t.Fatalf("expected 2 members in summary, got %d", len(summary.Members))
	}
}
