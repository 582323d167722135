package commerce_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conversational-commerce/pkg/commerce"
)

type capturedRequest struct {
	Query     string `json:"query"`
	Variables struct {
		Input commerce.CreateCartRequest `json:"input"`
	} `json:"variables"`
}

func storefront(t *testing.T, authCheck func(r *http.Request) bool) (*httptest.Server, *capturedRequest) {
	t.Helper()
	var captured capturedRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"cc-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/2024-10/graphql.json", func(w http.ResponseWriter, r *http.Request) {
		if !authCheck(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if len(captured.Variables.Input.Lines) == 0 {
			w.Write([]byte(`{"data":{"cartCreate":{"cart":null,"userErrors":[{"field":["input","lines"],"message":"lines required"}]}}}`))
			return
		}

		attrs, _ := json.Marshal(captured.Variables.Input.Attributes)
		w.Write([]byte(`{"data":{"cartCreate":{"cart":{
			"id":"gid://shopify/Cart/c1-abc?key=xyz",
			"checkoutUrl":"https://shop.example/cart/c/c1-abc",
			"createdAt":"2025-06-01T12:00:00Z",
			"attributes":` + string(attrs) + `,
			"cost":{"totalAmount":{"amount":"199.90","currencyCode":"BRL"}},
			"lines":{"edges":[{"node":{"quantity":2}},{"node":{"quantity":1}}]}
		},"userErrors":[]}}}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &captured
}

func TestClient_CreateCart(t *testing.T) {
	ts, captured := storefront(t, func(r *http.Request) bool {
		return r.Header.Get(commerce.StorefrontTokenHeader) == "sf-token"
	})

	client, err := commerce.NewClient(commerce.Config{StoreDomain: ts.URL, StorefrontToken: "sf-token"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Run("success with attributes", func(t *testing.T) {
		cart, err := client.CreateCart(context.Background(), commerce.CreateCartRequest{
			Lines:      []commerce.CartLine{{MerchandiseID: "gid://shopify/ProductVariant/1", Quantity: 2}, {MerchandiseID: "gid://shopify/ProductVariant/2", Quantity: 1}},
			Attributes: []commerce.Attribute{{Key: "_agent_conversation_id", Value: "C1"}},
		})
		if err != nil {
			t.Fatalf("CreateCart: %v", err)
		}
		if cart.Token != "c1-abc" {
			t.Errorf("Token = %q, want c1-abc", cart.Token)
		}
		if cart.TotalAmount != "199.90" || cart.Currency != "BRL" || cart.Quantity != 3 {
			t.Errorf("unexpected cart: %+v", cart)
		}
		if len(captured.Variables.Input.Attributes) != 1 || captured.Variables.Input.Attributes[0].Value != "C1" {
			t.Errorf("attributes not sent: %+v", captured.Variables.Input.Attributes)
		}
		if len(cart.Attributes) != 1 {
			t.Errorf("attributes not echoed: %+v", cart.Attributes)
		}
	})

	t.Run("user errors", func(t *testing.T) {
		_, err := client.CreateCart(context.Background(), commerce.CreateCartRequest{})
		if !errors.Is(err, commerce.ErrCartCreate) {
			t.Errorf("expected ErrCartCreate, got %v", err)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		bad, _ := commerce.NewClient(commerce.Config{StoreDomain: ts.URL, StorefrontToken: "nope"})
		_, err := bad.CreateCart(context.Background(), commerce.CreateCartRequest{
			Lines: []commerce.CartLine{{MerchandiseID: "v", Quantity: 1}},
		})
		if !errors.Is(err, commerce.ErrCartCreate) {
			t.Errorf("expected ErrCartCreate on 401, got %v", err)
		}
	})
}

func TestClient_ClientCredentials(t *testing.T) {
	ts, _ := storefront(t, func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer cc-token"
	})

	client, err := commerce.NewClient(commerce.Config{
		StoreDomain:  ts.URL,
		ClientID:     "app",
		ClientSecret: "secret",
		TokenURL:     ts.URL + "/oauth/token",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cart, err := client.CreateCart(context.Background(), commerce.CreateCartRequest{
		Lines: []commerce.CartLine{{MerchandiseID: "v", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateCart: %v", err)
	}
	if cart.ID == "" {
		t.Error("expected a cart id")
	}
}

func TestNewClient_RequiresDomain(t *testing.T) {
	if _, err := commerce.NewClient(commerce.Config{}); !errors.Is(err, commerce.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCartToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"gid://shopify/Cart/abc123?key=def", "abc123"},
		{"gid://shopify/Cart/abc123", "abc123"},
		{"plain-token", "plain-token"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := commerce.CartToken(tt.in); got != tt.want {
			t.Errorf("CartToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
