package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/divvyup/divvy/internal/domain"
	"github.com/divvyup/divvy/internal/usecase"
)

// MockGroupRepository is a mock implementation of GroupRepository.
type MockGroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, group *domain.Group) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Group, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Group, error)
	BumpVersionFunc      func(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error)
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

func (m *MockGroupRepository) Create(ctx context.Context, tx usecase.Transaction, group *domain.Group) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockGroupRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Group, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockGroupRepository) List(ctx context.Context, limit, offset int) ([]*domain.Group, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var groups []*domain.Group
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (m *MockGroupRepository) BumpVersion(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) (int64, error) {
	if m.BumpVersionFunc != nil {
		return m.BumpVersionFunc(ctx, tx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return 0, domain.ErrGroupNotFound
	}
	g.Version++
	g.UpdatedAt = updatedAt
	return g.Version, nil
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, member *domain.Member) error
	ListByGroupFunc   func(ctx context.Context, groupID string) ([]*domain.Member, error)
	ListByGroupTxFunc func(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.Member, error)
	MarkRemovedFunc   func(ctx context.Context, tx usecase.Transaction, memberID string, updatedAt time.Time) error
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string]*domain.Member),
	}
}

func (m *MockMemberRepository) Create(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Member, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []*domain.Member
	for _, mem := range m.members {
		if mem.GroupID == groupID {
			members = append(members, mem)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (m *MockMemberRepository) ListByGroupTx(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.Member, error) {
	if m.ListByGroupTxFunc != nil {
		return m.ListByGroupTxFunc(ctx, tx, groupID)
	}
	return m.ListByGroup(ctx, groupID)
}

func (m *MockMemberRepository) MarkRemoved(ctx context.Context, tx usecase.Transaction, memberID string, updatedAt time.Time) error {
	if m.MarkRemovedFunc != nil {
		return m.MarkRemovedFunc(ctx, tx, memberID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberID]
	if !ok {
		return domain.ErrMemberNotFound
	}
	mem.Removed = true
	return nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses []*domain.SplitExpense

	AppendFunc        func(ctx context.Context, tx usecase.Transaction, expense *domain.SplitExpense) error
	ListByGroupFunc   func(ctx context.Context, groupID string) ([]*domain.SplitExpense, error)
	ListByGroupTxFunc func(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.SplitExpense, error)
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

func (m *MockExpenseRepository) Append(ctx context.Context, tx usecase.Transaction, expense *domain.SplitExpense) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *MockExpenseRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.SplitExpense, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var expenses []*domain.SplitExpense
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (m *MockExpenseRepository) ListByGroupTx(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.SplitExpense, error) {
	if m.ListByGroupTxFunc != nil {
		return m.ListByGroupTxFunc(ctx, tx, groupID)
	}
	return m.ListByGroup(ctx, groupID)
}

// MockSettlementRepository is a mock implementation of SettlementRepository.
type MockSettlementRepository struct {
	mu          sync.RWMutex
	settlements map[string]*domain.Settlement

	CreateBatchFunc            func(ctx context.Context, tx usecase.Transaction, settlements []*domain.Settlement) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.Settlement, error)
	GetByIDForUpdateFunc       func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Settlement, error)
	ListByGroupFunc            func(ctx context.Context, groupID string) ([]*domain.Settlement, error)
	ListByGroupAndStatusFunc   func(ctx context.Context, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	ListByGroupAndStatusTxFunc func(ctx context.Context, tx usecase.Transaction, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	UpdateStatusFunc           func(ctx context.Context, tx usecase.Transaction, id string, status domain.SettlementStatus, updatedAt time.Time) error
	CancelPendingFunc          func(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error)
}

func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{
		settlements: make(map[string]*domain.Settlement),
	}
}

func (m *MockSettlementRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, settlements []*domain.Settlement) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, settlements)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range settlements {
		m.settlements[s.ID] = s
	}
	return nil
}

func (m *MockSettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settlements[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Settlement, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockSettlementRepository) ListByGroup(ctx context.Context, groupID string) ([]*domain.Settlement, error) {
	if m.ListByGroupFunc != nil {
		return m.ListByGroupFunc(ctx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var settlements []*domain.Settlement
	for _, s := range m.settlements {
		if s.GroupID == groupID {
			settlements = append(settlements, s)
		}
	}
	sort.Slice(settlements, func(i, j int) bool { return settlements[i].ID < settlements[j].ID })
	return settlements, nil
}

func (m *MockSettlementRepository) ListByGroupAndStatus(ctx context.Context, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	if m.ListByGroupAndStatusFunc != nil {
		return m.ListByGroupAndStatusFunc(ctx, groupID, status)
	}
	all, err := m.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	var settlements []*domain.Settlement
	for _, s := range all {
		if s.Status == status {
			settlements = append(settlements, s)
		}
	}
	return settlements, nil
}

func (m *MockSettlementRepository) ListByGroupAndStatusTx(ctx context.Context, tx usecase.Transaction, groupID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	if m.ListByGroupAndStatusTxFunc != nil {
		return m.ListByGroupAndStatusTxFunc(ctx, tx, groupID, status)
	}
	return m.ListByGroupAndStatus(ctx, groupID, status)
}

func (m *MockSettlementRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.SettlementStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settlements[id]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	if s.Status != domain.SettlementStatusPending {
		return domain.ErrSettlementNotPending
	}
	s.Status = status
	s.UpdatedAt = updatedAt
	return nil
}

func (m *MockSettlementRepository) CancelPending(ctx context.Context, tx usecase.Transaction, groupID string, updatedAt time.Time) (int64, error) {
	if m.CancelPendingFunc != nil {
		return m.CancelPendingFunc(ctx, tx, groupID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var cancelled int64
	for _, s := range m.settlements {
		if s.GroupID == groupID && s.Status == domain.SettlementStatusPending {
			s.Status = domain.SettlementStatusCancelled
			s.UpdatedAt = updatedAt
			cancelled++
		}
	}
	return cancelled, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			t := publishedAt
			e.PublishedAt = &t
			return nil
		}
	}
	return fmt.Errorf("event %s not found", id)
}

// Events returns a snapshot of every event written to the outbox.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs for tests.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockBalanceCache is a mock implementation of BalanceCache.
type MockBalanceCache struct {
	mu    sync.RWMutex
	store map[string]map[string]int64

	GetFunc func(ctx context.Context, groupID string, version int64) (map[string]int64, bool, error)
	SetFunc func(ctx context.Context, groupID string, version int64, balances map[string]int64, ttl time.Duration) error
}

func NewMockBalanceCache() *MockBalanceCache {
	return &MockBalanceCache{
		store: make(map[string]map[string]int64),
	}
}

func cacheKey(groupID string, version int64) string {
	return fmt.Sprintf("%s:v%d", groupID, version)
}

func (m *MockBalanceCache) Get(ctx context.Context, groupID string, version int64) (map[string]int64, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, groupID, version)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if balances, ok := m.store[cacheKey(groupID, version)]; ok {
		return balances, true, nil
	}
	return nil, false, nil
}

func (m *MockBalanceCache) Set(ctx context.Context, groupID string, version int64, balances map[string]int64, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, groupID, version, balances, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[cacheKey(groupID, version)] = balances
	return nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
