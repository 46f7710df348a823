package catalog

import (
	"context"

	"storefront/internal/domain"
)

type CreateCombinationInput struct {
	ProductID  string
	VariantIDs []string
	Stock      int
	Price      *float64
	Image      *string
}

// Repository exposes product and variant-combination reads plus the
// inventory ledger operations. Decrement and Restock are the only writers
// of combination stock.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCombination(ctx context.Context, id string) (*domain.VariantCombination, error)

	CreateCombination(ctx context.Context, in CreateCombinationInput) (*domain.VariantCombination, error)
	ListCombinationsByProduct(ctx context.Context, productID string) ([]domain.VariantCombination, error)
	ListCombinations(ctx context.Context) ([]domain.VariantCombination, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.VariantCombination, error)
	SetStock(ctx context.Context, combinationID string, stock int) (*domain.VariantCombination, error)

	// CheckAvailability is a read-only pre-check; only Decrement is
	// authoritative under concurrency.
	CheckAvailability(ctx context.Context, combinationID string, quantity int) (bool, int, error)
	Decrement(ctx context.Context, combinationID string, quantity int) error
	Restock(ctx context.Context, combinationID string, quantity int) (*domain.VariantCombination, error)
}
