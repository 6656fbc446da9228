package events

import (
	"time"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItemReported EventType = "item_reported"
	EventItemApproved EventType = "item_approved"
	EventItemRejected EventType = "item_rejected"
	EventItemClaimed  EventType = "item_claimed"
	EventItemUpdated  EventType = "item_updated"
	EventItemDeleted  EventType = "item_deleted"
)

// AllEventTypes lists every event emitted by the item services.
var AllEventTypes = []EventType{
	EventItemReported,
	EventItemApproved,
	EventItemRejected,
	EventItemClaimed,
	EventItemUpdated,
	EventItemDeleted,
}

// Event represents a domain event emitted after a successful write.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ItemID    string      `json:"item_id"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StatusChangedPayload accompanies every event that moves an item between
// lifecycle states. From is nil for a freshly reported item.
type StatusChangedPayload struct {
	From   *domain.ItemStatus `json:"from,omitempty"`
	To     domain.ItemStatus  `json:"to"`
	Reason string             `json:"reason,omitempty"`
}

// ItemUpdatedPayload lists the fields touched by a generic update.
type ItemUpdatedPayload struct {
	Fields []string `json:"fields"`
	// StatusFrom is set only when the update overwrote the status.
	StatusFrom *domain.ItemStatus `json:"status_from,omitempty"`
	StatusTo   *domain.ItemStatus `json:"status_to,omitempty"`
}

// ItemDeletedPayload carries the status the item held when removed.
type ItemDeletedPayload struct {
	LastStatus domain.ItemStatus `json:"last_status"`
	Title      string            `json:"title"`
}
