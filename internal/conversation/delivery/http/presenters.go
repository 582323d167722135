package http

import (
	"time"

	"conversational-commerce/internal/conversation"
)

type turnResp struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type searchResp struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

type productResp struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	At        time.Time `json:"at"`
}

type contextResp struct {
	UserID          string            `json:"user_id"`
	ConversationID  string            `json:"conversation_id"`
	Turns           []turnResp        `json:"turns"`
	ActiveCartRef   string            `json:"active_cart_ref,omitempty"`
	LastSearchQuery string            `json:"last_search_query,omitempty"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	Preferences     map[string]any    `json:"preferences,omitempty"`
	RecentSearches  []searchResp      `json:"recent_searches"`
	RecentProducts  []productResp     `json:"recent_products"`
	Brief           string            `json:"brief"`
	CreatedAt       time.Time         `json:"created_at"`
	LastActiveAt    time.Time         `json:"last_active_at"`
}

func (h *handler) newContextResp(c conversation.Context) contextResp {
	turns := make([]turnResp, len(c.Turns))
	for i, t := range c.Turns {
		turns[i] = turnResp{Role: string(t.Role), Text: t.Text, At: t.At}
	}
	searches := make([]searchResp, len(c.RecentSearches))
	for i, s := range c.RecentSearches {
		searches[i] = searchResp{Query: s.Query, ResultCount: s.ResultCount, At: s.At}
	}
	products := make([]productResp, len(c.RecentProducts))
	for i, p := range c.RecentProducts {
		products[i] = productResp{
			ProductID: p.ProductID,
			Title:     p.Title,
			Price:     float64(p.PriceMinor) / 100,
			Currency:  p.Currency,
			At:        p.At,
		}
	}
	return contextResp{
		UserID:          c.UserID,
		ConversationID:  c.ConversationID,
		Turns:           turns,
		ActiveCartRef:   c.ActiveCartRef,
		LastSearchQuery: c.LastSearchQuery,
		ShippingAddress: c.ShippingAddress,
		Preferences:     c.Preferences,
		RecentSearches:  searches,
		RecentProducts:  products,
		Brief:           c.Brief(),
		CreatedAt:       c.CreatedAt,
		LastActiveAt:    c.LastActiveAt,
	}
}

type clearResp struct {
	UserID  string `json:"user_id"`
	Existed bool   `json:"existed"`
}

type evictResp struct {
	Evicted   int `json:"evicted"`
	Remaining int `json:"remaining"`
}

type statsResp struct {
	ActiveContexts int     `json:"active_contexts"`
	TotalTurns     int     `json:"total_turns"`
	ActiveCarts    int     `json:"active_carts"`
	AvgTurns       float64 `json:"avg_turns_per_context"`
	TTLSeconds     int64   `json:"ttl_seconds"`
	MaxTurns       int     `json:"max_turns"`
}

func (h *handler) newStatsResp(st conversation.Stats) statsResp {
	resp := statsResp{
		ActiveContexts: st.ActiveContexts,
		TotalTurns:     st.TotalTurns,
		ActiveCarts:    st.ActiveCarts,
		TTLSeconds:     int64(st.TTL / time.Second),
		MaxTurns:       st.MaxTurns,
	}
	if st.ActiveContexts > 0 {
		resp.AvgTurns = float64(st.TotalTurns) / float64(st.ActiveContexts)
	}
	return resp
}
