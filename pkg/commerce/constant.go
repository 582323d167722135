package commerce

import "time"

const (
	// DefaultAPIVersion is the Storefront API version used when none is configured.
	DefaultAPIVersion = "2024-10"

	// DefaultTimeout bounds every backend call.
	DefaultTimeout = 15 * time.Second

	// StorefrontTokenHeader carries the public Storefront access token.
	StorefrontTokenHeader = "X-Shopify-Storefront-Access-Token"

	cartGIDPrefix = "gid://shopify/Cart/"
)

const cartCreateMutation = `mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      id
      checkoutUrl
      createdAt
      attributes { key value }
      cost { totalAmount { amount currencyCode } }
      lines(first: 100) { edges { node { quantity } } }
    }
    userErrors { field message }
  }
}`
