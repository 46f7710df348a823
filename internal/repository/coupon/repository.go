package coupon

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type CreateCouponInput struct {
	Code       string
	Discount   float64
	Type       string
	ExpiresAt  *time.Time
	UsageLimit *int
}

// Repository is the coupon ledger. IncrementUsage is the only writer of
// usage_count and re-checks the cap at execution time.
type Repository interface {
	Create(ctx context.Context, in CreateCouponInput) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	DeleteByCode(ctx context.Context, code string) error
	IncrementUsage(ctx context.Context, id string) error
}
