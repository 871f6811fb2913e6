package domain

// CartLine is one product entry in a shopper's cart. Lines are unique
// per ProductID and Quantity is always >= 1; a line dropping to zero
// is removed, never stored.
type CartLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	Image          string `json:"image,omitempty"`
	SKU            string `json:"sku"`
}
