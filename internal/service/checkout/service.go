// Package checkout orchestrates the order creation pipeline: input
// validation, per-line pricing against the live catalog, coupon
// validation, and the transactional commit that persists the order,
// claims the coupon slot, decrements stock and clears the cart.
package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	orderrepo "storefront/internal/repository/order"
)

type Service struct {
	catalog catalogRepo
	coupons couponValidator
	orders  orderRepo
	logger  *log.Logger
}

type catalogRepo interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCombination(ctx context.Context, id string) (*domain.VariantCombination, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code string) (*domain.Coupon, error)
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

func New(catalog catalogRepo, coupons couponValidator, orders orderRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{catalog: catalog, coupons: coupons, orders: orders, logger: logger}
}

type LineRequest struct {
	CombinationID string `json:"combinationId"`
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
}

type Input struct {
	Items           []LineRequest        `json:"items"`
	PaymentMethod   string               `json:"paymentMethod"`
	ShippingAddress domain.AddressInput  `json:"shippingAddress"`
	BillingAddress  *domain.AddressInput `json:"billingAddress"`
	CouponCode      *string              `json:"couponCode"`
	ShippingAmount  float64              `json:"shippingAmount"`
}

// Create runs a checkout for one user. Validation and pricing happen
// before any write; the commit sequence itself runs inside a single
// transaction in the order repository, so a failure at any point leaves
// no partial state behind.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*domain.Order, error) {
	phone, email, err := validatePreconditions(userID, in)
	if err != nil {
		return nil, err
	}

	var subtotal float64
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		item, price, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		subtotal += price * float64(line.Quantity)
		items = append(items, item)
	}

	var discountAmount float64
	var couponCode, couponID *string
	if in.CouponCode != nil && strings.TrimSpace(*in.CouponCode) != "" {
		coupon, err := s.coupons.Validate(ctx, *in.CouponCode)
		if err != nil {
			return nil, err
		}
		discountAmount = coupon.DiscountAmount(subtotal)
		couponCode = &coupon.Code
		couponID = &coupon.ID
	}

	// No floor at zero: a FIXED discount above the subtotal yields a
	// negative total.
	totalAmount := subtotal - discountAmount + in.ShippingAmount

	var billing *domain.AddressInput
	if in.BillingAddress != nil {
		merged := in.BillingAddress.MergedWith(in.ShippingAddress)
		billing = &merged
	}

	order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		UserID:         userID,
		Items:          items,
		TotalAmount:    totalAmount,
		DiscountAmount: discountAmount,
		ShippingAmount: in.ShippingAmount,
		CouponCode:     couponCode,
		CouponID:       couponID,
		Shipping:       in.ShippingAddress,
		Billing:        billing,
		ContactPhone:   phone,
		ContactEmail:   email,
		PaymentMethod:  in.PaymentMethod,
	})
	if err != nil {
		s.logger.Printf("checkout: commit failed user_id=%s items=%d error=%v", userID, len(in.Items), err)
		return nil, err
	}

	s.logger.Printf("checkout: order created id=%s user_id=%s total=%.2f", order.ID, userID, order.TotalAmount)
	return order, nil
}

func validatePreconditions(userID string, in Input) (phone string, email *string, err error) {
	if strings.TrimSpace(userID) == "" {
		return "", nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	if len(in.Items) == 0 {
		return "", nil, fmt.Errorf("%w: at least one item is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return "", nil, fmt.Errorf("%w: payment method is required", domain.ErrValidation)
	}

	// Contact phone resolves billing-first, email shipping-first.
	phone = in.ShippingAddress.Phone
	if in.BillingAddress != nil && in.BillingAddress.Phone != "" {
		phone = in.BillingAddress.Phone
	}
	if strings.TrimSpace(phone) == "" {
		return "", nil, fmt.Errorf("%w: phone number is required", domain.ErrValidation)
	}

	if in.ShippingAddress.Email != "" {
		email = &in.ShippingAddress.Email
	} else if in.BillingAddress != nil && in.BillingAddress.Email != "" {
		email = &in.BillingAddress.Email
	}

	if err := in.ShippingAddress.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}
	return phone, email, nil
}

// priceLine validates one requested line against the catalog and freezes
// its price, size and color. The stock check here is a pre-check only;
// the authoritative guard runs inside the commit transaction.
func (s *Service) priceLine(ctx context.Context, line LineRequest) (domain.OrderItem, float64, error) {
	if line.CombinationID == "" || line.ProductID == "" || line.Quantity <= 0 {
		return domain.OrderItem{}, 0, fmt.Errorf("%w: each item must have combinationId, productId and quantity", domain.ErrValidation)
	}

	combination, err := s.catalog.GetCombination(ctx, line.CombinationID)
	if err != nil {
		return domain.OrderItem{}, 0, fmt.Errorf("combination %s: %w", line.CombinationID, err)
	}
	if combination.Price == nil {
		return domain.OrderItem{}, 0, fmt.Errorf("combination %s: %w", line.CombinationID, domain.ErrMissingPrice)
	}
	if combination.Stock < line.Quantity {
		return domain.OrderItem{}, 0, fmt.Errorf("combination %s: %w", line.CombinationID, domain.ErrInsufficientStock)
	}

	size, color, err := pricing.ResolveAttributes(*combination)
	if err != nil {
		return domain.OrderItem{}, 0, fmt.Errorf("combination %s: %w", line.CombinationID, err)
	}

	product, err := s.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return domain.OrderItem{}, 0, fmt.Errorf("product %s: %w", line.ProductID, err)
	}

	price, err := pricing.EffectiveUnitPrice(*combination, *product)
	if err != nil {
		return domain.OrderItem{}, 0, fmt.Errorf("combination %s: %w", line.CombinationID, err)
	}

	return domain.OrderItem{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Price:     price,
		Size:      size,
		Color:     color,
	}, price, nil
}
