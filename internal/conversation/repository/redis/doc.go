package redis

import (
	"time"

	"conversational-commerce/internal/conversation"
)

type turnDoc struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type searchDoc struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

type productDoc struct {
	ProductID  string    `json:"product_id"`
	Title      string    `json:"title"`
	PriceMinor int64     `json:"price_minor"`
	Currency   string    `json:"currency"`
	At         time.Time `json:"at"`
}

type contextDoc struct {
	UserID          string            `json:"user_id"`
	ConversationID  string            `json:"conversation_id"`
	Turns           []turnDoc         `json:"turns"`
	ActiveCartRef   string            `json:"active_cart_ref,omitempty"`
	LastSearchQuery string            `json:"last_search_query,omitempty"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	Preferences     map[string]any    `json:"preferences,omitempty"`
	RecentSearches  []searchDoc       `json:"recent_searches,omitempty"`
	RecentProducts  []productDoc      `json:"recent_products,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LastActiveAt    time.Time         `json:"last_active_at"`
}

func toDoc(c conversation.Context) contextDoc {
	d := contextDoc{
		UserID:          c.UserID,
		ConversationID:  c.ConversationID,
		ActiveCartRef:   c.ActiveCartRef,
		LastSearchQuery: c.LastSearchQuery,
		ShippingAddress: c.ShippingAddress,
		Preferences:     c.Preferences,
		CreatedAt:       c.CreatedAt,
		LastActiveAt:    c.LastActiveAt,
	}
	for _, t := range c.Turns {
		d.Turns = append(d.Turns, turnDoc{Role: string(t.Role), Text: t.Text, At: t.At})
	}
	for _, s := range c.RecentSearches {
		d.RecentSearches = append(d.RecentSearches, searchDoc(s))
	}
	for _, p := range c.RecentProducts {
		d.RecentProducts = append(d.RecentProducts, productDoc(p))
	}
	return d
}

func (d contextDoc) toDomain() conversation.Context {
	c := conversation.Context{
		UserID:          d.UserID,
		ConversationID:  d.ConversationID,
		ActiveCartRef:   d.ActiveCartRef,
		LastSearchQuery: d.LastSearchQuery,
		ShippingAddress: d.ShippingAddress,
		Preferences:     d.Preferences,
		CreatedAt:       d.CreatedAt,
		LastActiveAt:    d.LastActiveAt,
	}
	for _, t := range d.Turns {
		c.Turns = append(c.Turns, conversation.Turn{Role: conversation.Role(t.Role), Text: t.Text, At: t.At})
	}
	for _, s := range d.RecentSearches {
		c.RecentSearches = append(c.RecentSearches, conversation.ProductSearch(s))
	}
	for _, p := range d.RecentProducts {
		c.RecentProducts = append(c.RecentProducts, conversation.ProductRef(p))
	}
	return c
}
