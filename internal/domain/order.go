package domain

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order totals are computed once at creation: totalAmount equals the sum of
// line price snapshots times quantity, minus discountAmount, plus
// shippingAmount. They are never re-derived from live catalog prices.
type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"totalAmount"`
	DiscountAmount    float64     `json:"discountAmount"`
	ShippingAmount    float64     `json:"shippingAmount"`
	CouponCode        *string     `json:"couponCode"`
	CouponID          *string     `json:"couponId"`
	ContactPhone      string      `json:"contactPhone"`
	ContactEmail      *string     `json:"contactEmail"`
	PaymentMethod     string      `json:"paymentMethod"`
	Status            string      `json:"status"`
	ShippingAddressID string      `json:"-"`
	BillingAddressID  *string     `json:"-"`
	ShippingAddress   *Address    `json:"shippingAddress,omitempty"`
	BillingAddress    *Address    `json:"billingAddress"`
	TrackingNumber    *string     `json:"trackingNumber"`
	DeliveredAt       *time.Time  `json:"deliveredAt"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// OrderItem freezes the unit price, size and color at purchase time.
type OrderItem struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"orderId"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	Product   *Product `json:"product,omitempty"`
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Forward movement follows pending -> processing -> shipped ->
// delivered; cancellation is reachable from pending or processing only.
// Cancellation does not restore stock or coupon usage.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusShipped || to == StatusCancelled
	case StatusShipped:
		return to == StatusDelivered
	}
	return false
}
