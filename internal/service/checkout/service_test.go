package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type stubRepo struct {
	createOrder   *domain.Order
	createErr     error
	createErrs    []error
	createCalls   int
	lastCreate    orderrepo.CreateOrderInput
	orderNumbers  []string
	getOrder      *domain.Order
	getErr        error
	updatedStatus string
}

func (s *stubRepo) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	s.lastCreate = in
	s.orderNumbers = append(s.orderNumbers, in.OrderNumber)
	idx := s.createCalls
	s.createCalls++
	if idx < len(s.createErrs) {
		if err := s.createErrs[idx]; err != nil {
			return nil, err
		}
		return s.createOrder, nil
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createOrder, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.getOrder, s.getErr
}

func (s *stubRepo) List(_ context.Context) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, _, status string) (*domain.Order, error) {
	s.updatedStatus = status
	return s.getOrder, nil
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		Items:      []ItemInput{{ProductID: "p1", Quantity: 2, PriceCents: 1000}},
		TotalCents: 2000,
		Customer:   CustomerInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		Shipping:   ShippingInput{Address: "1 Main St", City: "Springfield", ZipCode: "12345"},
	}
}

func newService(repo *stubRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

func TestPlaceOrder_RejectsEmptyItems(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo)

	in := validInput()
	in.Items = nil
	_, err := svc.PlaceOrder(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no repo call, got %d", repo.createCalls)
	}
}

func TestPlaceOrder_RejectsMissingCustomerFields(t *testing.T) {
	cases := []func(*PlaceOrderInput){
		func(in *PlaceOrderInput) { in.Customer.FirstName = "" },
		func(in *PlaceOrderInput) { in.Customer.LastName = " " },
		func(in *PlaceOrderInput) { in.Customer.Email = "" },
	}
	for i, mutate := range cases {
		repo := &stubRepo{}
		svc := newService(repo)
		in := validInput()
		mutate(&in)
		if _, err := svc.PlaceOrder(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestPlaceOrder_RejectsMissingShippingFields(t *testing.T) {
	cases := []func(*PlaceOrderInput){
		func(in *PlaceOrderInput) { in.Shipping.Address = "" },
		func(in *PlaceOrderInput) { in.Shipping.City = "" },
		func(in *PlaceOrderInput) { in.Shipping.ZipCode = "" },
	}
	for i, mutate := range cases {
		repo := &stubRepo{}
		svc := newService(repo)
		in := validInput()
		mutate(&in)
		if _, err := svc.PlaceOrder(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestPlaceOrder_RejectsMalformedItems(t *testing.T) {
	cases := []ItemInput{
		{ProductID: "", Quantity: 1, PriceCents: 100},
		{ProductID: "p1", Quantity: 0, PriceCents: 100},
		{ProductID: "p1", Quantity: 1, PriceCents: -5},
	}
	for i, item := range cases {
		repo := &stubRepo{}
		svc := newService(repo)
		in := validInput()
		in.Items = []ItemInput{item}
		if _, err := svc.PlaceOrder(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestPlaceOrder_MapsInputToRepo(t *testing.T) {
	repo := &stubRepo{createOrder: &domain.Order{ID: "o1"}}
	svc := newService(repo)

	order, err := svc.PlaceOrder(context.Background(), validInput())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order %+v", order)
	}

	in := repo.lastCreate
	if in.Customer.Email != "jane@example.com" {
		t.Fatalf("unexpected customer %+v", in.Customer)
	}
	if in.Shipping.Name != "Jane Doe" {
		t.Fatalf("expected shipping name from customer, got %q", in.Shipping.Name)
	}
	if in.Shipping.Country != "US" {
		t.Fatalf("expected country default US, got %q", in.Shipping.Country)
	}
	if in.TotalCents != 2000 {
		t.Fatalf("expected total 2000, got %d", in.TotalCents)
	}
	if len(in.Items) != 1 || in.Items[0].PriceCents != 1000 || in.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", in.Items)
	}
	if !strings.HasPrefix(in.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", in.OrderNumber)
	}
}

func TestPlaceOrder_KeepsSubmittedCountry(t *testing.T) {
	repo := &stubRepo{createOrder: &domain.Order{ID: "o1"}}
	svc := newService(repo)

	in := validInput()
	in.Shipping.Country = "DE"
	if _, err := svc.PlaceOrder(context.Background(), in); err != nil {
		t.Fatalf("place: %v", err)
	}
	if repo.lastCreate.Shipping.Country != "DE" {
		t.Fatalf("expected country DE, got %q", repo.lastCreate.Shipping.Country)
	}
}

func TestPlaceOrder_RetriesOrderNumberCollision(t *testing.T) {
	repo := &stubRepo{
		createOrder: &domain.Order{ID: "o1"},
		createErrs:  []error{domain.ErrAlreadyExists, nil},
	}
	svc := newService(repo)

	order, err := svc.PlaceOrder(context.Background(), validInput())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order %+v", order)
	}
	if repo.createCalls != 2 {
		t.Fatalf("expected 2 attempts, got %d", repo.createCalls)
	}
	if repo.orderNumbers[0] == repo.orderNumbers[1] {
		t.Fatalf("expected fresh order number on retry")
	}
}

func TestPlaceOrder_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := &stubRepo{createErr: domain.ErrAlreadyExists}
	svc := newService(repo)

	_, err := svc.PlaceOrder(context.Background(), validInput())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected collision error, got %v", err)
	}
	if repo.createCalls != orderNumberAttempts {
		t.Fatalf("expected %d attempts, got %d", orderNumberAttempts, repo.createCalls)
	}
}

func TestPlaceOrder_PropagatesStockError(t *testing.T) {
	stockErr := &domain.InsufficientStockError{ProductID: "p1", Requested: 2, Available: 1}
	repo := &stubRepo{createErr: stockErr}
	svc := newService(repo)

	_, err := svc.PlaceOrder(context.Background(), validInput())
	var got *domain.InsufficientStockError
	if !errors.As(err, &got) || got.ProductID != "p1" {
		t.Fatalf("expected stock error for p1, got %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("stock conflicts must not be retried, got %d attempts", repo.createCalls)
	}
}

func TestNewOrderNumber_UniquePerMillisecond(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &Service{now: func() time.Time { return fixed }}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := svc.newOrderNumber()
		if seen[n] {
			t.Fatalf("duplicate order number %q within one millisecond", n)
		}
		seen[n] = true
	}
}

func TestUpdateStatus_EnforcesTransitions(t *testing.T) {
	repo := &stubRepo{getOrder: &domain.Order{ID: "o1", Status: domain.OrderStatusPending}}
	svc := newService(repo)

	if _, err := svc.UpdateStatus(context.Background(), "o1", "processing"); err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}
	if repo.updatedStatus != domain.OrderStatusProcessing {
		t.Fatalf("expected PROCESSING, got %q", repo.updatedStatus)
	}

	if _, err := svc.UpdateStatus(context.Background(), "o1", "DELIVERED"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("pending -> delivered should fail, got %v", err)
	}
}
