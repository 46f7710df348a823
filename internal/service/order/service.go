package order

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/domain"
)

type Service struct {
	repo orderRepo
}

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, page, limit int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id, from, to string, trackingNumber *string, deliveredAt *time.Time) (*domain.Order, error)
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

type StatusInput struct {
	Status         string     `json:"status"`
	TrackingNumber *string    `json:"trackingNumber"`
	DeliveredAt    *time.Time `json:"deliveredAt"`
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, page, limit int) ([]domain.Order, int, error) {
	return s.repo.ListAll(ctx, page, limit)
}

// UpdateStatus drives the order state machine. The transition is
// re-checked at the row level, so two concurrent updates cannot both
// move the same order. Cancellation does not restore stock or coupon
// usage; cancelled inventory is restocked explicitly by an operator.
func (s *Service) UpdateStatus(ctx context.Context, id string, in StatusInput) (*domain.Order, error) {
	if !domain.ValidStatus(in.Status) {
		return nil, fmt.Errorf("status %q: %w", in.Status, domain.ErrInvalidStatus)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, in.Status) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, in.Status, domain.ErrInvalidTransition)
	}

	return s.repo.UpdateStatus(ctx, id, current.Status, in.Status, in.TrackingNumber, in.DeliveredAt)
}
