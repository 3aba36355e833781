package domain

import "time"

// Event types
const (
	EventTypeExpenseRecorded        = "expense.recorded"
	EventTypeSettlementsRegenerated = "settlements.regenerated"
	EventTypeSettlementConfirmed    = "settlement.confirmed"
	EventTypeGroupCreated           = "group.created"
)

// Aggregate types
const (
	AggregateTypeGroup      = "group"
	AggregateTypeExpense    = "expense"
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and published asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
