package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	CategoryID     *string   `json:"categoryId,omitempty"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	SKU            string    `json:"sku"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	Stock          int       `json:"stock"`
	WeightGrams    *int      `json:"weightGrams,omitempty"`
	Featured       bool      `json:"featured"`
	Active         bool      `json:"active"`
	Images         []string  `json:"images,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	Category *Category `json:"category,omitempty"`
}
