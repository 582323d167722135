package commerce

import (
	"context"
	"time"
)

// CartCreator creates carts on the commerce backend.
type CartCreator interface {
	CreateCart(ctx context.Context, req CreateCartRequest) (Cart, error)
}

// Attribute is a key/value pair stored on a cart and copied onto its order.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLine is one merchandise line of a cart request.
type CartLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// BuyerIdentity optionally pre-fills checkout.
type BuyerIdentity struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// CreateCartRequest is the input of cartCreate.
type CreateCartRequest struct {
	Lines      []CartLine     `json:"lines"`
	Attributes []Attribute    `json:"attributes,omitempty"`
	Buyer      *BuyerIdentity `json:"buyerIdentity,omitempty"`
	Note       string         `json:"note,omitempty"`
}

// Cart is the backend's view of a created cart.
type Cart struct {
	ID          string
	Token       string
	CheckoutURL string
	// TotalAmount is the backend decimal string, e.g. "199.90".
	TotalAmount string
	Currency    string
	Quantity    int
	Attributes  []Attribute
	CreatedAt   time.Time
}

// --- wire types ---

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartCreateResponse struct {
	Data struct {
		CartCreate struct {
			Cart *struct {
				ID          string      `json:"id"`
				CheckoutURL string      `json:"checkoutUrl"`
				CreatedAt   time.Time   `json:"createdAt"`
				Attributes  []Attribute `json:"attributes"`
				Cost        struct {
					TotalAmount struct {
						Amount       string `json:"amount"`
						CurrencyCode string `json:"currencyCode"`
					} `json:"totalAmount"`
				} `json:"cost"`
				Lines struct {
					Edges []struct {
						Node struct {
							Quantity int `json:"quantity"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"lines"`
			} `json:"cart"`
			UserErrors []userError `json:"userErrors"`
		} `json:"cartCreate"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
