package events

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
	EventSubscriptionActivated EventType = "subscription_activated"
)

// Event represents a domain event emitted by services. TicketID is empty for
// subscription events.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category string                `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID      string `json:"comment_id"`
	AuthorID       string `json:"author_id"`
	AuthorName     string `json:"author_name"`
	IsInternal     bool   `json:"is_internal"`
	ContentPreview string `json:"content_preview"`
}

// SubscriptionActivatedPayload payload.
type SubscriptionActivatedPayload struct {
	PlanID    string `json:"plan_id"`
	PlanName  string `json:"plan_name"`
	Amount    int64  `json:"amount"`
	PaymentID string `json:"payment_id"`
}
