package cart

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type Service struct {
	repo    cartRepo
	catalog catalogRepo
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, combinationID *string, quantity int) (*domain.Cart, error)
	ChangeItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	ClearByUser(ctx context.Context, userID string) error
}

type catalogRepo interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCombination(ctx context.Context, id string) (*domain.VariantCombination, error)
}

func New(repo cartRepo, catalog catalogRepo) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type AddInput struct {
	ProductID     string  `json:"productId"`
	CombinationID *string `json:"combinationId"`
	Quantity      int     `json:"quantity"`
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Add validates the product (and combination, when one is requested) and
// pre-checks stock before inserting or merging the cart line. The check is
// advisory only; checkout re-validates stock atomically.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.Cart, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	available := product.Stock
	if in.CombinationID != nil {
		combination, err := s.catalog.GetCombination(ctx, *in.CombinationID)
		if err != nil {
			return nil, err
		}
		if combination.ProductID != product.ID {
			return nil, fmt.Errorf("%w: combination does not belong to product", domain.ErrValidation)
		}
		available = combination.Stock
	}
	if available < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	return s.repo.AddItem(ctx, userID, in.ProductID, in.CombinationID, in.Quantity)
}

func (s *Service) ChangeQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.repo.RemoveItem(ctx, userID, itemID)
	}
	return s.repo.ChangeItemQuantity(ctx, userID, itemID, quantity)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	return s.repo.RemoveItem(ctx, userID, itemID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearByUser(ctx, userID)
}
