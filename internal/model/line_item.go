package model

// LineItem is one product line of a cart or order, priced in minor units.
type LineItem struct {
	ProductID  string `json:"product_id,omitempty"`
	VariantID  string `json:"variant_id,omitempty"`
	Title      string `json:"title,omitempty"`
	SKU        string `json:"sku,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceMinor int64  `json:"price_minor"`
}

// TotalMinor is price times quantity.
func (li LineItem) TotalMinor() int64 {
	return li.PriceMinor * int64(li.Quantity)
}
