// Package payment defines the boundary to the external payment authority.
// Checkout never gates its transaction on a capture; payments are recorded
// by method and reference only.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// Authorization is the result of placing an amount with the authority.
type Authorization struct {
	Reference string  `json:"id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

// Capture is the result of capturing a previously authorized payment.
type Capture struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Authority abstracts the external payment provider.
type Authority interface {
	Authorize(ctx context.Context, amount float64) (*Authorization, error)
	Capture(ctx context.Context, reference string) (*Capture, error)
}

// Sandbox is an in-process authority that approves every well-formed
// request with deterministic lifecycle states. It backs local development
// and tests.
type Sandbox struct{}

func NewSandbox() *Sandbox {
	return &Sandbox{}
}

func (s *Sandbox) Authorize(_ context.Context, amount float64) (*Authorization, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	return &Authorization{
		Reference: uuid.NewString(),
		Amount:    amount,
		Status:    "CREATED",
	}, nil
}

func (s *Sandbox) Capture(_ context.Context, reference string) (*Capture, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: payment reference is required", domain.ErrValidation)
	}
	return &Capture{
		Reference: reference,
		Status:    "COMPLETED",
	}, nil
}
