package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the cart store. Carts are owned by a single user; no
// cross-user coordination is needed. ClearByUser is called by checkout
// inside its own transaction, so it is also exposed standalone here only
// for the explicit clear-cart endpoint.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, combinationID *string, quantity int) (*domain.Cart, error)
	ChangeItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	ClearByUser(ctx context.Context, userID string) error
}
