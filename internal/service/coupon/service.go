package coupon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	couponrepo "storefront/internal/repository/coupon"
)

type Service struct {
	repo couponRepo
	now  func() time.Time
}

type couponRepo interface {
	Create(ctx context.Context, in couponrepo.CreateCouponInput) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	DeleteByCode(ctx context.Context, code string) error
}

func New(repo couponRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Code       string     `json:"code"`
	Discount   float64    `json:"discount"`
	Type       string     `json:"type"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	UsageLimit *int       `json:"usageLimit"`
}

// Validate confirms a coupon is currently eligible: it exists, has not
// expired, and still has usage capacity. It does not claim a usage slot;
// that happens inside the checkout transaction once the order is durable.
func (s *Service) Validate(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.Expired(s.now()) {
		return nil, domain.ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, domain.ErrCouponExhausted
	}
	return coupon, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Coupon, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, fmt.Errorf("%w: coupon code is required", domain.ErrValidation)
	}
	if in.Type != domain.CouponPercentage && in.Type != domain.CouponFixed {
		return nil, fmt.Errorf("%w: coupon type must be PERCENTAGE or FIXED", domain.ErrValidation)
	}
	if in.Discount <= 0 {
		return nil, fmt.Errorf("%w: discount must be positive", domain.ErrValidation)
	}
	return s.repo.Create(ctx, couponrepo.CreateCouponInput{
		Code:       strings.ToUpper(strings.TrimSpace(in.Code)),
		Discount:   in.Discount,
		Type:       in.Type,
		ExpiresAt:  in.ExpiresAt,
		UsageLimit: in.UsageLimit,
	})
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.DeleteByCode(ctx, code)
}
