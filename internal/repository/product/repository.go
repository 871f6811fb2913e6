package product

import (
	"context"

	"storefront/internal/domain"
)

// ListFilter narrows and orders a product listing. Zero values mean
// "no filter".
type ListFilter struct {
	CategorySlug  string
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	Sort          string // newest | price-low | price-high | name | featured
	Page          int
	Limit         int
	ActiveOnly    bool
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	UpsertBySKU(ctx context.Context, p domain.Product) (*domain.Product, bool, error)
}
