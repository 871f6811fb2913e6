package catalog

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
)

type productRepo interface {
	List(ctx context.Context, f productrepo.ListFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// Service serves the catalog to shoppers and the back-office.
type Service struct {
	products   productRepo
	categories categoryRepo
}

func New(products productrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, categories: categories}
}

const defaultPageSize = 12

// ListInput mirrors the storefront listing query string.
type ListInput struct {
	Category      string
	Search        string
	Sort          string
	MinPriceCents *int64
	MaxPriceCents *int64
	Page          int
	Limit         int
}

// ProductPage is one page of storefront results.
type ProductPage struct {
	Products    []domain.Product `json:"products"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

// ListProducts returns active products only; the back-office uses the
// repository directly through the admin handlers.
func (s *Service) ListProducts(ctx context.Context, in ListInput) (*ProductPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	products, total, err := s.products.List(ctx, productrepo.ListFilter{
		CategorySlug:  strings.TrimSpace(in.Category),
		Search:        strings.TrimSpace(in.Search),
		MinPriceCents: in.MinPriceCents,
		MaxPriceCents: in.MaxPriceCents,
		Sort:          in.Sort,
		Page:          page,
		Limit:         limit,
		ActiveOnly:    true,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}

	totalPages := (total + limit - 1) / limit
	return &ProductPage{
		Products:    products,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return cats, nil
}

// ProductInput carries back-office product fields.
type ProductInput struct {
	CategoryID     *string  `json:"categoryId,omitempty"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug,omitempty"`
	SKU            string   `json:"sku"`
	Description    string   `json:"description,omitempty"`
	PriceCents     int64    `json:"priceCents"`
	SalePriceCents *int64   `json:"salePriceCents,omitempty"`
	Stock          int      `json:"stock"`
	WeightGrams    *int     `json:"weightGrams,omitempty"`
	Featured       bool     `json:"featured"`
	Active         *bool    `json:"active,omitempty"`
	Images         []string `json:"images,omitempty"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.products.Create(ctx, *p)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := productFromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.products.Update(ctx, *p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return s.categories.Create(ctx, domain.Category{
		Name:        in.Name,
		Slug:        Slugify(firstNonEmpty(in.Slug, in.Name)),
		Description: in.Description,
	})
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return s.categories.Update(ctx, domain.Category{
		ID:          id,
		Name:        in.Name,
		Slug:        Slugify(firstNonEmpty(in.Slug, in.Name)),
		Description: in.Description,
	})
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

func productFromInput(in ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.SKU) == "" {
		return nil, fmt.Errorf("%w: sku is required", domain.ErrValidation)
	}
	if in.PriceCents < 0 {
		return nil, fmt.Errorf("%w: priceCents must not be negative", domain.ErrValidation)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &domain.Product{
		CategoryID:     in.CategoryID,
		Name:           in.Name,
		Slug:           Slugify(firstNonEmpty(in.Slug, in.Name)),
		SKU:            in.SKU,
		Description:    in.Description,
		PriceCents:     in.PriceCents,
		SalePriceCents: in.SalePriceCents,
		Stock:          in.Stock,
		WeightGrams:    in.WeightGrams,
		Featured:       in.Featured,
		Active:         active,
		Images:         in.Images,
	}, nil
}

// Slugify lowercases and replaces whitespace runs with dashes, the
// same normalization the import path applies.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
