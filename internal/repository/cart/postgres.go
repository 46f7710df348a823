package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := r.fetchCart(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// An absent cart reads as an empty one.
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, userID, productID string, combinationID *string, quantity int) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text
`, userID).Scan(&cartID)
	if err != nil {
		return nil, err
	}

	var itemID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_items
WHERE cart_id = $1 AND product_id = $2 AND combination_id IS NOT DISTINCT FROM $3
`, cartID, productID, combinationID).Scan(&itemID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2
`, existingQty+quantity, itemID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, combination_id, quantity)
VALUES ($1, $2, $3, $4)
`, cartID, productID, combinationID, quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) ChangeItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
FROM carts
WHERE cart_items.id = $2 AND carts.id = cart_items.cart_id AND carts.user_id = $3
`, quantity, itemID, userID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
USING carts
WHERE cart_items.id = $1 AND carts.id = cart_items.cart_id AND carts.user_id = $2
`, itemID, userID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByUser(ctx, userID)
}

func (r *postgresRepo) ClearByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items
USING carts
WHERE carts.id = cart_items.cart_id AND carts.user_id = $1
`, userID)
	return err
}

func (r *postgresRepo) fetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, `
SELECT id::text, user_id, created_at
FROM carts
WHERE user_id = $1
`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT ci.id::text, ci.cart_id::text, ci.product_id::text, ci.combination_id::text, ci.quantity, ci.created_at,
       p.id::text, p.name, p.slug, COALESCE(p.description, ''), p.price, p.discount, p.stock, COALESCE(p.image, ''), p.created_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.CombinationID, &item.Quantity, &item.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount, &p.Stock, &p.Image, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCombinations(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) attachCombinations(ctx context.Context, cart *domain.Cart) error {
	var ids []string
	byID := make(map[string][]*domain.CartItem)
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.CombinationID == nil {
			continue
		}
		if _, seen := byID[*item.CombinationID]; !seen {
			ids = append(ids, *item.CombinationID)
		}
		byID[*item.CombinationID] = append(byID[*item.CombinationID], item)
	}
	if len(ids) == 0 {
		return nil
	}

	const q = `
SELECT c.id::text, c.product_id::text, c.stock, c.price, c.image, c.created_at, v.key, v.value
FROM product_variant_combinations c
LEFT JOIN combination_variants cv ON cv.combination_id = c.id
LEFT JOIN variants v ON v.id = cv.variant_id
WHERE c.id = ANY($1)
ORDER BY c.id, v.key
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	combos := make(map[string]*domain.VariantCombination)
	for rows.Next() {
		var c domain.VariantCombination
		var key, value *string
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Stock, &c.Price, &c.Image, &c.CreatedAt, &key, &value); err != nil {
			return err
		}
		existing, ok := combos[c.ID]
		if !ok {
			combos[c.ID] = &c
			existing = &c
		}
		if key != nil && value != nil {
			existing.Variants = append(existing.Variants, domain.VariantPair{Key: *key, Value: *value})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for id, combo := range combos {
		for _, item := range byID[id] {
			item.Combination = combo
		}
	}
	return nil
}
