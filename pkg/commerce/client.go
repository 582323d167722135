// Package commerce is a minimal Shopify Storefront API client covering cart creation.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNotConfigured = errors.New("commerce: store domain is not configured")
	ErrCartCreate    = errors.New("commerce: cart create failed")
)

// Config configures the Storefront client. Authentication uses the
// Storefront token header unless ClientID and TokenURL are both set, in which
// case an OAuth2 client-credentials token is fetched and refreshed.
type Config struct {
	StoreDomain     string
	APIVersion      string
	StorefrontToken string

	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string

	Timeout time.Duration
}

// Client talks to the Storefront GraphQL endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Storefront client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.StoreDomain == "" {
		return nil, ErrNotConfigured
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base := strings.TrimRight(cfg.StoreDomain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	return &Client{
		endpoint:   fmt.Sprintf("%s/api/%s/graphql.json", base, cfg.APIVersion),
		httpClient: newHTTPClient(cfg),
	}, nil
}

func newHTTPClient(cfg Config) *http.Client {
	if cfg.ClientID != "" && cfg.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		// The token fetch itself uses a client with the same timeout.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
		c := cc.Client(ctx)
		c.Timeout = cfg.Timeout
		return c
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &tokenTransport{
			token: cfg.StorefrontToken,
			base:  http.DefaultTransport,
		},
	}
}

// tokenTransport adds the Storefront access token to every request.
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(StorefrontTokenHeader, t.token)
	return t.base.RoundTrip(r)
}

// CreateCart runs the cartCreate mutation.
func (c *Client) CreateCart(ctx context.Context, req CreateCartRequest) (Cart, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     cartCreateMutation,
		Variables: map[string]any{"input": req},
	})
	if err != nil {
		return Cart{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Cart{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrCartCreate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Cart{}, fmt.Errorf("%w: status %d: %s", ErrCartCreate, resp.StatusCode, string(raw))
	}

	var out cartCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Cart{}, fmt.Errorf("failed to decode cartCreate response: %w", err)
	}
	if len(out.Errors) > 0 {
		return Cart{}, fmt.Errorf("%w: %s", ErrCartCreate, out.Errors[0].Message)
	}
	payload := out.Data.CartCreate
	if len(payload.UserErrors) > 0 {
		return Cart{}, fmt.Errorf("%w: %s", ErrCartCreate, payload.UserErrors[0].Message)
	}
	if payload.Cart == nil {
		return Cart{}, fmt.Errorf("%w: empty cart in response", ErrCartCreate)
	}

	cart := Cart{
		ID:          payload.Cart.ID,
		Token:       CartToken(payload.Cart.ID),
		CheckoutURL: payload.Cart.CheckoutURL,
		TotalAmount: payload.Cart.Cost.TotalAmount.Amount,
		Currency:    payload.Cart.Cost.TotalAmount.CurrencyCode,
		Attributes:  payload.Cart.Attributes,
		CreatedAt:   payload.Cart.CreatedAt,
	}
	for _, e := range payload.Cart.Lines.Edges {
		cart.Quantity += e.Node.Quantity
	}
	return cart, nil
}

// CartToken extracts the cart token from a Storefront cart id
// ("gid://shopify/Cart/<token>?key=..."). Other ids are returned unchanged.
func CartToken(id string) string {
	if !strings.HasPrefix(id, cartGIDPrefix) {
		return id
	}
	token := strings.TrimPrefix(id, cartGIDPrefix)
	if i := strings.IndexByte(token, '?'); i >= 0 {
		token = token[:i]
	}
	return token
}
