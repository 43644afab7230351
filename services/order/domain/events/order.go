package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the order bounded context.
const (
	TopicOrderCreated         = "order.created"
	TopicOrderAllocationSaved = "order.allocation_saved"
	TopicOrderStatusChanged   = "order.status_changed"
)

// OrderCreatedEvent is published after a new Order is persisted.
type OrderCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	OrderID    uuid.UUID `json:"order_id"`
	OrgID      uuid.UUID `json:"org_id"`
	Reference  string    `json:"reference"`
	OrderType  string    `json:"order_type"`
	LineCount  int       `json:"line_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AllocationSavedEvent is published after a validated cargo allocation is persisted.
// Consumers rebuild the shipment document read model from the stored order.
type AllocationSavedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Version      int       `json:"version"`
	OrderID      uuid.UUID `json:"order_id"`
	OrgID        uuid.UUID `json:"org_id"`
	Reference    string    `json:"reference"`
	CargoCount   int       `json:"cargo_count"`
	TotalKg      string    `json:"total_kg"`
	TotalCartons int64     `json:"total_cartons"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// OrderStatusChangedEvent is published whenever the lifecycle status moves.
// Shortfall is true when the order was submitted with acknowledged missing quantity.
type OrderStatusChangedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	OrderID     uuid.UUID `json:"order_id"`
	OrgID       uuid.UUID `json:"org_id"`
	Reference   string    `json:"reference"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Shortfall   bool      `json:"shortfall"`
	ConfirmedBy string    `json:"confirmed_by,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
