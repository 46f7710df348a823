package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// CreateOrderInput carries everything the checkout orchestrator computed:
// priced line snapshots, totals, the validated coupon, address inputs and
// contact details. The repository turns it into one transaction.
type CreateOrderInput struct {
	UserID         string
	Items          []domain.OrderItem
	TotalAmount    float64
	DiscountAmount float64
	ShippingAmount float64
	CouponCode     *string
	CouponID       *string
	Shipping       domain.AddressInput
	Billing        *domain.AddressInput
	ContactPhone   string
	ContactEmail   *string
	PaymentMethod  string
}

type Repository interface {
	// Create runs the whole commit sequence (addresses, order, line
	// snapshots, coupon usage increment, stock decrements, cart clear)
	// inside a single transaction. On any failure nothing is persisted.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)

	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, page, limit int) ([]domain.Order, int, error)

	// UpdateStatus moves an order from one status to another. The expected
	// current status is part of the WHERE clause, so a concurrent
	// transition makes the update a no-op instead of a lost write.
	UpdateStatus(ctx context.Context, id, from, to string, trackingNumber *string, deliveredAt *time.Time) (*domain.Order, error)
}
