package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	customerrepo "storefront/internal/repository/customer"
	orderrepo "storefront/internal/repository/order"

	"github.com/google/uuid"
)

// orderNumberAttempts bounds retries when a generated order number
// collides with an existing one.
const orderNumberAttempts = 3

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

type customerRepo interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

// Service turns a submitted cart snapshot into a durable order.
type Service struct {
	repo      orderRepo
	customers customerRepo
	now       func() time.Time
}

func New(repo orderrepo.Repository, customers customerrepo.Repository) *Service {
	return &Service{repo: repo, customers: customers, now: time.Now}
}

type ItemInput struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

type CustomerInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

type ShippingInput struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   *string `json:"state,omitempty"`
	ZipCode string  `json:"zipCode"`
	Country string  `json:"country,omitempty"`
}

type PlaceOrderInput struct {
	Items      []ItemInput   `json:"items"`
	TotalCents int64         `json:"totalCents"`
	Customer   CustomerInput `json:"customer"`
	Shipping   ShippingInput `json:"shipping"`
}

// PlaceOrder validates the submission and runs the placement
// transaction. Item prices are taken as submitted, not re-fetched, so
// the order keeps the price the shopper saw.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	country := strings.TrimSpace(in.Shipping.Country)
	if country == "" {
		country = "US"
	}

	repoIn := orderrepo.CreateOrderInput{
		Customer: orderrepo.CustomerInput{
			Email:     strings.TrimSpace(in.Customer.Email),
			FirstName: strings.TrimSpace(in.Customer.FirstName),
			LastName:  strings.TrimSpace(in.Customer.LastName),
			Phone:     in.Customer.Phone,
		},
		Shipping: orderrepo.ShippingInput{
			Name:    strings.TrimSpace(in.Customer.FirstName) + " " + strings.TrimSpace(in.Customer.LastName),
			Email:   strings.TrimSpace(in.Customer.Email),
			Phone:   in.Customer.Phone,
			Address: in.Shipping.Address,
			City:    in.Shipping.City,
			State:   in.Shipping.State,
			Zip:     in.Shipping.ZipCode,
			Country: country,
		},
		TotalCents: in.TotalCents,
	}
	for _, item := range in.Items {
		repoIn.Items = append(repoIn.Items, orderrepo.ItemInput{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		repoIn.OrderNumber = s.newOrderNumber()
		order, err := s.repo.Create(ctx, repoIn)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("order number generation exhausted: %w", lastErr)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// ListCustomers exposes the customer rows created during checkout to
// the back-office.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

// UpdateStatus moves an order along the fulfilment pipeline, rejecting
// transitions the pipeline does not allow.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.ValidStatusTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s", domain.ErrValidation, order.Status, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func validate(in PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: items are required", domain.ErrValidation)
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return fmt.Errorf("%w: items[%d].productId is required", domain.ErrValidation, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity must be at least 1", domain.ErrValidation, i)
		}
		if item.PriceCents < 0 {
			return fmt.Errorf("%w: items[%d].priceCents must not be negative", domain.ErrValidation, i)
		}
	}
	if strings.TrimSpace(in.Customer.FirstName) == "" ||
		strings.TrimSpace(in.Customer.LastName) == "" ||
		strings.TrimSpace(in.Customer.Email) == "" {
		return fmt.Errorf("%w: customer information is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Shipping.Address) == "" ||
		strings.TrimSpace(in.Shipping.City) == "" ||
		strings.TrimSpace(in.Shipping.ZipCode) == "" {
		return fmt.Errorf("%w: shipping address is required", domain.ErrValidation)
	}
	if in.TotalCents < 0 {
		return fmt.Errorf("%w: totalCents must not be negative", domain.ErrValidation)
	}
	return nil
}

// newOrderNumber combines a millisecond timestamp with random entropy
// so two orders in the same millisecond still differ. A unique index
// on order_number backs this up; collisions are retried by PlaceOrder.
func (s *Service) newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), suffix)
}
