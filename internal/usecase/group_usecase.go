package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/divvyup/divvy/internal/domain"
)

// GroupUseCase handles group and roster business logic.
type GroupUseCase struct {
	txManager   TransactionManager
	groupRepo   GroupRepository
	memberRepo  MemberRepository
	expenseRepo ExpenseRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(
	txManager TransactionManager,
	groupRepo GroupRepository,
	memberRepo MemberRepository,
	expenseRepo ExpenseRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *GroupUseCase {
	return &GroupUseCase{
		txManager:   txManager,
		groupRepo:   groupRepo,
		memberRepo:  memberRepo,
		expenseRepo: expenseRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
	}
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name        string
	Description string
	MemberNames []string
}

// CreateGroup creates a group together with its initial roster.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, []*domain.Member, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, nil, domain.ErrInvalidName
	}

	names := make([]string, 0, len(input.MemberNames))
	for _, n := range input.MemberNames {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}

	if len(names) == 0 {
		return nil, nil, domain.ErrEmptyRoster
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	group := &domain.Group{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Description: input.Description,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.groupRepo.Create(txCtx, tx, group); err != nil {
		return nil, nil, err
	}

	members := make([]*domain.Member, 0, len(names))
	for _, name := range names {
		member := &domain.Member{
			ID:       uc.idGen.Generate(),
			GroupID:  group.ID,
			Name:     name,
			JoinedAt: now,
		}
		if err := uc.memberRepo.Create(txCtx, tx, member); err != nil {
			return nil, nil, err
		}
		members = append(members, member)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   group.ID,
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupCreated,
		Payload: map[string]any{
			"group_id": group.ID,
			"name":     group.Name,
			"members":  len(members),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// GetGroup retrieves a group by ID.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groupRepo.GetByID(ctx, id)
}

// ListGroupsInput represents input for listing groups.
type ListGroupsInput struct {
	Limit  int
	Offset int
}

// ListGroups lists groups with pagination.
func (uc *GroupUseCase) ListGroups(ctx context.Context, input ListGroupsInput) ([]*domain.Group, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	return uc.groupRepo.List(ctx, input.Limit, input.Offset)
}

// ListMembers lists a group's members, removed ones included.
func (uc *GroupUseCase) ListMembers(ctx context.Context, groupID string) ([]*domain.Member, error) {
	if _, err := uc.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.memberRepo.ListByGroup(ctx, groupID)
}

// AddMember adds a member to an existing group.
func (uc *GroupUseCase) AddMember(ctx context.Context, groupID, name string) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.groupRepo.GetByIDForUpdate(txCtx, tx, groupID); err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:       uc.idGen.Generate(),
		GroupID:  groupID,
		Name:     name,
		JoinedAt: time.Now().UTC(),
	}
	if err := uc.memberRepo.Create(txCtx, tx, member); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return member, nil
}

// GroupSummary aggregates a group's spend for display.
type GroupSummary struct {
	Group        *domain.Group
	Members      []*domain.Member
	ExpenseCount int
	TotalSpent   int64
}

// GetSummary returns the group together with its roster and total spend.
func (uc *GroupUseCase) GetSummary(ctx context.Context, groupID string) (*GroupSummary, error) {
	group, err := uc.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := uc.memberRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, e := range expenses {
		total += e.Amount
	}

	return &GroupSummary{
		Group:        group,
		Members:      members,
		ExpenseCount: len(expenses),
		TotalSpent:   total,
	}, nil
}

// rosterOf converts members to the ordered roster of member IDs.
func rosterOf(members []*domain.Member) domain.Roster {
	roster := make(domain.Roster, 0, len(members))
	for _, m := range members {
		roster = append(roster, m.ID)
	}
	return roster
}
