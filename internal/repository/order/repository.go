package order

import (
	"context"

	"storefront/internal/domain"
)

// CustomerInput identifies the customer placing the order; the row is
// created on first use and reused by email afterwards.
type CustomerInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     *string
}

type ShippingInput struct {
	Name    string
	Email   string
	Phone   *string
	Address string
	City    string
	State   *string
	Zip     string
	Country string
}

type ItemInput struct {
	ProductID  string
	Quantity   int
	PriceCents int64
}

type CreateOrderInput struct {
	OrderNumber string
	Customer    CustomerInput
	Shipping    ShippingInput
	TotalCents  int64
	Items       []ItemInput
}

type Repository interface {
	// Create runs the entire placement as one transaction: customer
	// upsert, order + item inserts, and guarded stock decrements.
	// Returns domain.ErrAlreadyExists on an order-number collision and
	// *domain.InsufficientStockError when a line would oversell.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}
