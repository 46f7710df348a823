package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, name, slug, COALESCE(description, ''), price, discount, stock, COALESCE(image, ''), created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount, &p.Stock, &p.Image, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetCombination(ctx context.Context, id string) (*domain.VariantCombination, error) {
	const q = `
SELECT id::text, product_id::text, stock, price, image, created_at
FROM product_variant_combinations
WHERE id = $1
`
	var c domain.VariantCombination
	err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.ProductID, &c.Stock, &c.Price, &c.Image, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachVariants(ctx, []*domain.VariantCombination{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) CreateCombination(ctx context.Context, in CreateCombinationInput) (*domain.VariantCombination, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
INSERT INTO product_variant_combinations (product_id, stock, price, image)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`, in.ProductID, in.Stock, in.Price, in.Image).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, variantID := range in.VariantIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO combination_variants (combination_id, variant_id)
VALUES ($1, $2)
`, id, variantID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("catalog repo: combination created id=%s product_id=%s variants=%d", id, in.ProductID, len(in.VariantIDs))
	return r.GetCombination(ctx, id)
}

func (r *postgresRepo) ListCombinationsByProduct(ctx context.Context, productID string) ([]domain.VariantCombination, error) {
	const q = `
SELECT id::text, product_id::text, stock, price, image, created_at
FROM product_variant_combinations
WHERE product_id = $1
ORDER BY created_at DESC
`
	return r.listCombinations(ctx, q, productID)
}

func (r *postgresRepo) ListCombinations(ctx context.Context) ([]domain.VariantCombination, error) {
	const q = `
SELECT id::text, product_id::text, stock, price, image, created_at
FROM product_variant_combinations
ORDER BY created_at DESC
`
	return r.listCombinations(ctx, q)
}

func (r *postgresRepo) ListLowStock(ctx context.Context, threshold int) ([]domain.VariantCombination, error) {
	const q = `
SELECT id::text, product_id::text, stock, price, image, created_at
FROM product_variant_combinations
WHERE stock < $1
ORDER BY stock ASC
`
	return r.listCombinations(ctx, q, threshold)
}

func (r *postgresRepo) SetStock(ctx context.Context, combinationID string, stock int) (*domain.VariantCombination, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE product_variant_combinations
SET stock = $2
WHERE id = $1
`, combinationID, stock)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetCombination(ctx, combinationID)
}

func (r *postgresRepo) CheckAvailability(ctx context.Context, combinationID string, quantity int) (bool, int, error) {
	const q = `
SELECT stock
FROM product_variant_combinations
WHERE id = $1
`
	var stock int
	if err := r.pool.QueryRow(ctx, q, combinationID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, domain.ErrNotFound
		}
		return false, 0, err
	}
	return stock >= quantity, stock, nil
}

// Decrement subtracts quantity only if enough stock remains at execution
// time. The stock guard lives in the UPDATE itself so two racing
// decrements can never jointly overdraw a combination.
func (r *postgresRepo) Decrement(ctx context.Context, combinationID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE product_variant_combinations
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, combinationID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM product_variant_combinations WHERE id = $1)
`, combinationID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		r.logger.Printf("catalog repo: decrement refused combination_id=%s quantity=%d", combinationID, quantity)
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *postgresRepo) Restock(ctx context.Context, combinationID string, quantity int) (*domain.VariantCombination, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE product_variant_combinations
SET stock = stock + $2
WHERE id = $1
`, combinationID, quantity)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	r.logger.Printf("catalog repo: restock combination_id=%s quantity=%d", combinationID, quantity)
	return r.GetCombination(ctx, combinationID)
}

func (r *postgresRepo) listCombinations(ctx context.Context, q string, args ...interface{}) ([]domain.VariantCombination, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VariantCombination
	for rows.Next() {
		var c domain.VariantCombination
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Stock, &c.Price, &c.Image, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.VariantCombination, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.attachVariants(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) attachVariants(ctx context.Context, combos []*domain.VariantCombination) error {
	if len(combos) == 0 {
		return nil
	}
	ids := make([]string, len(combos))
	byID := make(map[string]*domain.VariantCombination, len(combos))
	for i, c := range combos {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	const q = `
SELECT cv.combination_id::text, v.key, v.value
FROM combination_variants cv
JOIN variants v ON v.id = cv.variant_id
WHERE cv.combination_id = ANY($1)
ORDER BY v.key ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var comboID string
		var pair domain.VariantPair
		if err := rows.Scan(&comboID, &pair.Key, &pair.Value); err != nil {
			return err
		}
		if c, ok := byID[comboID]; ok {
			c.Variants = append(c.Variants, pair)
		}
	}
	return rows.Err()
}
