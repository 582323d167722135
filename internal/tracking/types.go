package tracking

import (
	"time"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/pkg/commerce"
)

type RecordMessageInput struct {
	UserID    string
	Role      conversation.Role
	Text      string
	MessageID string    // optional channel message id
	At        time.Time // zero means now
}

type RecordMessageOutput struct {
	ConversationID string
	Created        bool
	Duplicate      bool
	Turns          int
}

type RecordProductViewInput struct {
	UserID     string
	ProductID  string
	Title      string
	PriceMinor int64
	Currency   string
}

type RecordProductViewOutput struct {
	ConversationID string
	EventID        string
}

type RecordSearchInput struct {
	UserID      string
	Query       string
	ResultCount int
}

type RecordSearchOutput struct {
	ConversationID string
	RecentSearches int
}

// RecordActionInput describes an agent action timed by the caller.
type RecordActionInput struct {
	UserID        string
	Operation     string
	Parameters    map[string]any
	ResultSummary string
	Success       bool
	Latency       time.Duration
	At            time.Time
}

type RecordActionOutput struct {
	EventID        string
	ConversationID string
}

type CreateCartInput struct {
	UserID string // optional; without a live conversation the cart is untagged
	Lines  []commerce.CartLine
	Buyer  *commerce.BuyerIdentity
	Note   string
}

type CreateCartOutput struct {
	Cart           commerce.Cart
	TotalMinor     int64
	ConversationID string
	Attributed     bool
}
