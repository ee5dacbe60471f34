package domain

import "time"

// Event types
const (
	EventTypeTransactionPosted = "transaction.posted"
	EventTypeTransactionVoided = "transaction.voided"
	EventTypeAccountCreated    = "account.created"
	EventTypePeriodStatusSet   = "period.status_set"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeAccount     = "account"
	AggregateTypePeriod      = "period"
)

// OutboxEvent represents an event to be published. Events are written in the
// same database transaction as the state change they describe, so consumers
// never observe a partially-applied posting.
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
