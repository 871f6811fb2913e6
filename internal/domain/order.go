package domain

import "time"

// Order statuses. Orders start as pending; transitions are driven by
// the back-office.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	CustomerID      string      `json:"customerId"`
	TotalCents      int64       `json:"totalCents"`
	Status          string      `json:"status"`
	ShippingName    string      `json:"shippingName"`
	ShippingEmail   string      `json:"shippingEmail"`
	ShippingPhone   *string     `json:"shippingPhone,omitempty"`
	ShippingAddress string      `json:"shippingAddress"`
	ShippingCity    string      `json:"shippingCity"`
	ShippingState   *string     `json:"shippingState,omitempty"`
	ShippingZip     string      `json:"shippingZip"`
	ShippingCountry string      `json:"shippingCountry"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items,omitempty"`
	Customer        *Customer   `json:"customer,omitempty"`
}

// OrderItem captures the unit price at purchase time. It never changes
// even when the catalog price does.
type OrderItem struct {
	ID         string   `json:"id"`
	OrderID    string   `json:"orderId"`
	ProductID  string   `json:"productId"`
	Quantity   int      `json:"quantity"`
	PriceCents int64    `json:"priceCents"`
	Product    *Product `json:"product,omitempty"`
}

// ValidStatusTransition reports whether an order may move from one
// status to another.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusShipped || to == OrderStatusCancelled
	case OrderStatusShipped:
		return to == OrderStatusDelivered
	default:
		return false
	}
}
