package eventlog

import (
	"time"

	"conversational-commerce/internal/model"
)

// Kind names an event type.
type Kind string

const (
	KindMessage             Kind = "message"
	KindConversationStarted Kind = "conversation_started"
	KindProductViewed       Kind = "product_viewed"
	KindAgentAction         Kind = "agent_action"
	KindCartCreated         Kind = "cart_created"
	KindCartModified        Kind = "cart_modified"
	KindOrderCompleted      Kind = "order_completed"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	KindMessage,
	KindConversationStarted,
	KindProductViewed,
	KindAgentAction,
	KindCartCreated,
	KindCartModified,
	KindOrderCompleted,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsTransaction reports whether k is a commerce backend event.
func (k Kind) IsTransaction() bool {
	return k == KindCartCreated || k == KindCartModified || k == KindOrderCompleted
}

// DedupKey builds the idempotency key for a backend event.
func DedupKey(kind Kind, externalID string) string {
	return string(kind) + ":" + externalID
}

// MessageDedupKey builds the idempotency key for a channel message.
func MessageDedupKey(messageID string) string {
	return string(KindMessage) + ":" + messageID
}

// Event is the envelope shared by every kind. Exactly one payload pointer
// matching Kind is set (none for conversation_started).
type Event struct {
	ID             string
	Seq            int64
	Kind           Kind
	DedupKey       string
	ConversationID string
	UserID         string
	OccurredAt     time.Time

	Message     *MessagePayload
	ProductView *ProductViewPayload
	Action      *ActionPayload
	Transaction *TransactionPayload
}

// Attributed reports whether the event is linked to a conversation.
func (e Event) Attributed() bool {
	return e.ConversationID != ""
}

// Clone returns a copy sharing no mutable state with e.
func (e Event) Clone() Event {
	out := e
	if e.Message != nil {
		m := *e.Message
		out.Message = &m
	}
	if e.ProductView != nil {
		p := *e.ProductView
		out.ProductView = &p
	}
	if e.Action != nil {
		a := *e.Action
		if a.Parameters != nil {
			params := make(map[string]any, len(a.Parameters))
			for k, v := range a.Parameters {
				params[k] = v
			}
			a.Parameters = params
		}
		out.Action = &a
	}
	if e.Transaction != nil {
		t := *e.Transaction
		t.LineItems = append([]model.LineItem(nil), e.Transaction.LineItems...)
		out.Transaction = &t
	}
	return out
}

// MessagePayload describes one chat turn.
type MessagePayload struct {
	Role      string `json:"role"`
	MessageID string `json:"message_id,omitempty"`
	Length    int    `json:"length"`
}

// ProductViewPayload describes a product shown to the user.
type ProductViewPayload struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title,omitempty"`
	PriceMinor int64  `json:"price_minor,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// ActionPayload describes one backend operation triggered by the agent.
type ActionPayload struct {
	Operation     string         `json:"operation"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	ResultSummary string         `json:"result_summary,omitempty"`
	Success       bool           `json:"success"`
	LatencyMS     int64          `json:"latency_ms"`
}

// TransactionPayload describes a cart or order reported by the backend.
type TransactionPayload struct {
	ExternalID    string           `json:"external_id"`
	OrderNumber   string           `json:"order_number,omitempty"`
	AmountMinor   int64            `json:"amount_minor"`
	SubtotalMinor int64            `json:"subtotal_minor,omitempty"`
	TaxMinor      int64            `json:"tax_minor,omitempty"`
	DiscountMinor int64            `json:"discount_minor,omitempty"`
	Currency      string           `json:"currency"`
	LineItems     []model.LineItem `json:"line_items,omitempty"`
	Email         string           `json:"email,omitempty"`
	CartToken     string           `json:"cart_token,omitempty"`
}

// Window is the half-open time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
