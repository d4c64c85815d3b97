package events

import (
	"time"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventItemCreated        EventType = "item_created"
	EventItemModerated      EventType = "item_moderated"
	EventItemReported       EventType = "item_reported"
	EventOrderCreated       EventType = "order_created"
	EventOrderStatusChanged EventType = "order_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// ItemCreatedPayload payload.
type ItemCreatedPayload struct {
	Title      string            `json:"title"`
	CategoryID string            `json:"category_id"`
	Status     domain.ItemStatus `json:"status"`
}

// ItemModeratedPayload payload.
type ItemModeratedPayload struct {
	OldStatus domain.ItemStatus `json:"old_status"`
	NewStatus domain.ItemStatus `json:"new_status"`
	Reason    string            `json:"reason,omitempty"`
}

// ItemReportedPayload payload.
type ItemReportedPayload struct {
	ReportID string            `json:"report_id"`
	Type     domain.ReportType `json:"report_type"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	ItemID   string `json:"item_id"`
	SellerID string `json:"seller_id"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}
