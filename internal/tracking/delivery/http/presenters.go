package http

import (
	"encoding/json"
	"time"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/model"
	"conversational-commerce/internal/tracking"
	"conversational-commerce/pkg/commerce"
)

// --- Request DTOs ---

type messageReq struct {
	UserID    string     `json:"user_id"    binding:"required"`
	Role      string     `json:"role"       binding:"required,oneof=user assistant"`
	Text      string     `json:"text"`
	MessageID string     `json:"message_id"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r messageReq) toInput() tracking.RecordMessageInput {
	in := tracking.RecordMessageInput{
		UserID:    r.UserID,
		Role:      conversation.Role(r.Role),
		Text:      r.Text,
		MessageID: r.MessageID,
	}
	if r.Timestamp != nil {
		in.At = r.Timestamp.UTC()
	}
	return in
}

// ---

type productViewReq struct {
	UserID    string          `json:"user_id"    binding:"required"`
	ProductID string          `json:"product_id" binding:"required"`
	Title     string          `json:"title"`
	Price     json.RawMessage `json:"price"      swaggertype:"string"`
	Currency  string          `json:"currency"`
}

func (r productViewReq) toInput() (tracking.RecordProductViewInput, error) {
	in := tracking.RecordProductViewInput{
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Title:     r.Title,
		Currency:  r.Currency,
	}
	if len(r.Price) > 0 && string(r.Price) != "null" {
		minor, err := model.ParseMinorJSON(r.Price)
		if err != nil {
			return in, errInvalidPrice
		}
		in.PriceMinor = minor
	}
	return in, nil
}

// ---

type searchReq struct {
	UserID      string `json:"user_id"      binding:"required"`
	Query       string `json:"query"        binding:"required"`
	ResultCount int    `json:"result_count" binding:"min=0"`
}

func (r searchReq) toInput() tracking.RecordSearchInput {
	return tracking.RecordSearchInput{UserID: r.UserID, Query: r.Query, ResultCount: r.ResultCount}
}

// ---

type actionReq struct {
	UserID        string         `json:"user_id"`
	Operation     string         `json:"operation"  binding:"required"`
	Parameters    map[string]any `json:"parameters"`
	ResultSummary string         `json:"result_summary"`
	Success       bool           `json:"success"`
	LatencyMS     int64          `json:"latency_ms" binding:"min=0"`
}

func (r actionReq) toInput() tracking.RecordActionInput {
	return tracking.RecordActionInput{
		UserID:        r.UserID,
		Operation:     r.Operation,
		Parameters:    r.Parameters,
		ResultSummary: r.ResultSummary,
		Success:       r.Success,
		Latency:       time.Duration(r.LatencyMS) * time.Millisecond,
	}
}

// ---

type cartLineReq struct {
	MerchandiseID string `json:"merchandise_id" binding:"required"`
	Quantity      int    `json:"quantity"       binding:"required,min=1"`
}

type buyerReq struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code"`
}

type cartReq struct {
	UserID string        `json:"user_id"`
	Lines  []cartLineReq `json:"lines" binding:"required,min=1,dive"`
	Buyer  *buyerReq     `json:"buyer"`
	Note   string        `json:"note"`
}

func (r cartReq) toInput() tracking.CreateCartInput {
	lines := make([]commerce.CartLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = commerce.CartLine{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity}
	}
	in := tracking.CreateCartInput{UserID: r.UserID, Lines: lines, Note: r.Note}
	if r.Buyer != nil {
		in.Buyer = &commerce.BuyerIdentity{Email: r.Buyer.Email, Phone: r.Buyer.Phone, CountryCode: r.Buyer.CountryCode}
	}
	return in
}

// --- Response DTOs ---

type messageResp struct {
	ConversationID string `json:"conversation_id"`
	Created        bool   `json:"created"`
	Duplicate      bool   `json:"duplicate"`
	Turns          int    `json:"turns"`
}

type productViewResp struct {
	ConversationID string `json:"conversation_id"`
	EventID        string `json:"event_id"`
}

type searchResp struct {
	ConversationID string `json:"conversation_id"`
	RecentSearches int    `json:"recent_searches"`
}

type actionResp struct {
	EventID        string `json:"event_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type cartResp struct {
	CartID         string  `json:"cart_id"`
	Token          string  `json:"token"`
	CheckoutURL    string  `json:"checkout_url"`
	Total          float64 `json:"total"`
	Currency       string  `json:"currency"`
	Quantity       int     `json:"quantity"`
	ConversationID string  `json:"conversation_id,omitempty"`
	Attributed     bool    `json:"attributed"`
}

func (h *handler) newCartResp(o tracking.CreateCartOutput) cartResp {
	return cartResp{
		CartID:         o.Cart.ID,
		Token:          o.Cart.Token,
		CheckoutURL:    o.Cart.CheckoutURL,
		Total:          model.MajorUnits(o.TotalMinor),
		Currency:       o.Cart.Currency,
		Quantity:       o.Cart.Quantity,
		ConversationID: o.ConversationID,
		Attributed:     o.Attributed,
	}
}
