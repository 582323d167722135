package webhook

import (
	"time"

	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/model"
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for HMAC verification
	AllowedIPs      []string // IP allowlist, exact or CIDR (optional)
	RateLimitPerMin int      // Max requests per minute per source; 0 disables
}

// Topic is the backend's notification topic.
type Topic string

const (
	TopicOrdersCreate Topic = "orders/create"
	TopicOrdersPaid   Topic = "orders/paid"
	TopicCartsCreate  Topic = "carts/create"
	TopicCartsUpdate  Topic = "carts/update"
)

// Kind returns the event kind a topic produces; ok is false for unsupported topics.
func (t Topic) Kind() (eventlog.Kind, bool) {
	switch t {
	case TopicOrdersCreate, TopicOrdersPaid:
		return eventlog.KindOrderCompleted, true
	case TopicCartsCreate:
		return eventlog.KindCartCreated, true
	case TopicCartsUpdate:
		return eventlog.KindCartModified, true
	}
	return "", false
}

// Notification is a verified, parsed backend notification.
type Notification struct {
	Topic      Topic
	Kind       eventlog.Kind
	ExternalID string

	OrderNumber   string
	AmountMinor   int64
	SubtotalMinor int64
	TaxMinor      int64
	DiscountMinor int64
	Currency      string
	LineItems     []model.LineItem
	Email         string
	CartToken     string

	// RawMetadata is the verified body; attribution tags are decoded from it.
	RawMetadata []byte
	OccurredAt  time.Time
}
