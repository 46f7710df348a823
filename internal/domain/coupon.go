package domain

import "time"

const (
	CouponPercentage = "PERCENTAGE"
	CouponFixed      = "FIXED"
)

// Coupon codes are stored uppercased and matched case-insensitively.
// UsageCount only ever grows and never passes UsageLimit when one is set.
type Coupon struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	Discount   float64    `json:"discount"`
	Type       string     `json:"type"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	UsageLimit *int       `json:"usageLimit"`
	UsageCount int        `json:"usageCount"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Expired reports whether the coupon's expiry, if any, lies before now.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// Exhausted reports whether the usage cap, if any, has been reached.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

// DiscountAmount computes the discount against a subtotal. FIXED discounts
// are not clamped to the subtotal, so the resulting order total may go
// negative.
func (c Coupon) DiscountAmount(subtotal float64) float64 {
	if c.Type == CouponPercentage {
		return subtotal * c.Discount / 100
	}
	return c.Discount
}
