package http

import "conversational-commerce/internal/correlator"

// Webhook outcomes
const (
	statusAccepted  = "accepted"
	statusDuplicate = "duplicate"
	statusIgnored   = "ignored"
)

type webhookResp struct {
	Status         string `json:"status"`
	Topic          string `json:"topic,omitempty"`
	EventID        string `json:"event_id,omitempty"`
	Attributed     bool   `json:"attributed"`
	ConversationID string `json:"conversation_id,omitempty"`
}

func newWebhookResp(topic string, out correlator.Outcome) webhookResp {
	status := statusAccepted
	if out.Duplicate {
		status = statusDuplicate
	}
	return webhookResp{
		Status:         status,
		Topic:          topic,
		EventID:        out.EventID,
		Attributed:     out.Attributed,
		ConversationID: out.ConversationID,
	}
}
