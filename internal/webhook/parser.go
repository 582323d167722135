package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"conversational-commerce/internal/model"
)

// Parse turns a verified body into a Notification for topic. receivedAt is
// used when the payload carries no usable timestamp.
func Parse(topic Topic, body []byte, receivedAt time.Time) (Notification, error) {
	kind, ok := topic.Kind()
	if !ok {
		return Notification{}, fmt.Errorf("%w: %s", ErrUnsupportedTopic, topic)
	}

	var (
		n   Notification
		err error
	)
	switch topic {
	case TopicOrdersCreate, TopicOrdersPaid:
		n, err = parseOrder(body)
	default:
		n, err = parseCart(body)
	}
	if err != nil {
		return Notification{}, err
	}

	n.Topic = topic
	n.Kind = kind
	n.RawMetadata = body
	if n.OccurredAt.IsZero() {
		n.OccurredAt = receivedAt.UTC()
	}
	if n.Currency == "" {
		n.Currency = model.DefaultCurrency
	}
	return n, nil
}

type orderPayload struct {
	ID             json.RawMessage   `json:"id"`
	OrderNumber    json.RawMessage   `json:"order_number"`
	Name           string            `json:"name"`
	TotalPrice     json.RawMessage   `json:"total_price"`
	SubtotalPrice  json.RawMessage   `json:"subtotal_price"`
	TotalTax       json.RawMessage   `json:"total_tax"`
	TotalDiscounts json.RawMessage   `json:"total_discounts"`
	Currency       string            `json:"currency"`
	LineItems      []lineItemPayload `json:"line_items"`
	Email          string            `json:"email"`
	Customer       *customerPayload  `json:"customer"`
	CartToken      string            `json:"cart_token"`
	CreatedAt      string            `json:"created_at"`
}

type customerPayload struct {
	Email string `json:"email"`
}

type cartPayload struct {
	ID        json.RawMessage   `json:"id"`
	Token     string            `json:"token"`
	Currency  string            `json:"currency"`
	LineItems []lineItemPayload `json:"line_items"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type lineItemPayload struct {
	ProductID json.RawMessage `json:"product_id"`
	VariantID json.RawMessage `json:"variant_id"`
	Title     string          `json:"title"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	Price     json.RawMessage `json:"price"`
	LinePrice json.RawMessage `json:"line_price"`
}

func parseOrder(body []byte) (Notification, error) {
	var p orderPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id := idText(p.ID)
	if id == "" {
		return Notification{}, fmt.Errorf("%w: order id is required", ErrMalformed)
	}
	if !present(p.TotalPrice) {
		return Notification{}, fmt.Errorf("%w: total_price is required", ErrMalformed)
	}

	n := Notification{
		ExternalID:  id,
		OrderNumber: idText(p.OrderNumber),
		Currency:    strings.ToUpper(strings.TrimSpace(p.Currency)),
		Email:       p.Email,
		CartToken:   p.CartToken,
		OccurredAt:  parseTime(p.CreatedAt),
	}
	if n.OrderNumber == "" {
		n.OrderNumber = p.Name
	}
	if n.Email == "" && p.Customer != nil {
		n.Email = p.Customer.Email
	}

	var err error
	if n.AmountMinor, err = model.ParseMinorJSON(p.TotalPrice); err != nil {
		return Notification{}, fmt.Errorf("%w: total_price: %v", ErrMalformed, err)
	}
	for _, opt := range []struct {
		name string
		raw  json.RawMessage
		dst  *int64
	}{
		{"subtotal_price", p.SubtotalPrice, &n.SubtotalMinor},
		{"total_tax", p.TotalTax, &n.TaxMinor},
		{"total_discounts", p.TotalDiscounts, &n.DiscountMinor},
	} {
		if !present(opt.raw) {
			continue
		}
		if *opt.dst, err = model.ParseMinorJSON(opt.raw); err != nil {
			return Notification{}, fmt.Errorf("%w: %s: %v", ErrMalformed, opt.name, err)
		}
	}

	if n.LineItems, err = parseLineItems(p.LineItems); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func parseCart(body []byte) (Notification, error) {
	var p cartPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	token := p.Token
	if token == "" {
		token = idText(p.ID)
	}
	if token == "" {
		return Notification{}, fmt.Errorf("%w: cart token is required", ErrMalformed)
	}

	items, err := parseLineItems(p.LineItems)
	if err != nil {
		return Notification{}, err
	}

	n := Notification{
		ExternalID: token,
		CartToken:  token,
		Currency:   strings.ToUpper(strings.TrimSpace(p.Currency)),
		LineItems:  items,
		OccurredAt: parseTime(p.UpdatedAt),
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = parseTime(p.CreatedAt)
	}
	for _, li := range items {
		n.AmountMinor += li.TotalMinor()
	}
	return n, nil
}

// parseLineItems reads unit prices from price, or derives them from line_price.
func parseLineItems(in []lineItemPayload) ([]model.LineItem, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]model.LineItem, 0, len(in))
	for i, p := range in {
		li := model.LineItem{
			ProductID: idText(p.ProductID),
			VariantID: idText(p.VariantID),
			Title:     p.Title,
			SKU:       p.SKU,
			Quantity:  p.Quantity,
		}
		if li.Quantity <= 0 {
			li.Quantity = 1
		}

		switch {
		case present(p.LinePrice):
			total, err := model.ParseMinorJSON(p.LinePrice)
			if err != nil {
				return nil, fmt.Errorf("%w: line_items[%d].line_price: %v", ErrMalformed, i, err)
			}
			li.PriceMinor = total / int64(li.Quantity)
		case present(p.Price):
			price, err := model.ParseMinorJSON(p.Price)
			if err != nil {
				return nil, fmt.Errorf("%w: line_items[%d].price: %v", ErrMalformed, i, err)
			}
			li.PriceMinor = price
		}
		out = append(out, li)
	}
	return out, nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// idText renders a JSON string or number id as text; anything else is empty.
func idText(raw json.RawMessage) string {
	if !present(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
