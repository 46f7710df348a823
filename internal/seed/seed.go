package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Slug        string
	Description string
	Price       float64
	Discount    float64
	Combos      []comboSeed
}

type comboSeed struct {
	Size  string
	Color string
	Stock int
	Price float64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Classic Tee",
			Slug:        "classic-tee",
			Description: "Soft cotton tee",
			Price:       100,
			Discount:    10,
			Combos: []comboSeed{
				{Size: "M", Color: "Black", Stock: 25, Price: 100},
				{Size: "L", Color: "Black", Stock: 25, Price: 100},
				{Size: "L", Color: "Red", Stock: 10, Price: 110},
			},
		},
		{
			Name:        "Canvas Hoodie",
			Slug:        "canvas-hoodie",
			Description: "Heavyweight fleece hoodie",
			Price:       180,
			Discount:    0,
			Combos: []comboSeed{
				{Size: "M", Color: "Grey", Stock: 12, Price: 180},
				{Size: "XL", Color: "Navy", Stock: 8, Price: 185},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	if err := upsertCoupon(ctx, pool, "SAVE10", 10, "PERCENTAGE", 100); err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, description, price, discount, stock)
VALUES ($1, $2, $3, $4, $5, 0)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    discount = EXCLUDED.discount
RETURNING id::text
`
	var productID string
	if err := pool.QueryRow(ctx, q, p.Name, p.Slug, p.Description, p.Price, p.Discount).Scan(&productID); err != nil {
		return err
	}

	for _, combo := range p.Combos {
		if err := ensureCombination(ctx, pool, productID, combo); err != nil {
			return err
		}
	}
	return nil
}

func ensureCombination(ctx context.Context, pool *pgxpool.Pool, productID string, combo comboSeed) error {
	sizeID, err := ensureVariant(ctx, pool, "Size", combo.Size)
	if err != nil {
		return err
	}
	colorID, err := ensureVariant(ctx, pool, "Color", combo.Color)
	if err != nil {
		return err
	}

	// Re-running the seed should not duplicate combinations.
	var existing string
	err = pool.QueryRow(ctx, `
SELECT pvc.id::text
FROM product_variant_combinations pvc
JOIN combination_variants s ON s.combination_id = pvc.id AND s.variant_id = $2
JOIN combination_variants c ON c.combination_id = pvc.id AND c.variant_id = $3
WHERE pvc.product_id = $1
`, productID, sizeID, colorID).Scan(&existing)
	if err == nil {
		_, err = pool.Exec(ctx, `
UPDATE product_variant_combinations SET stock = $2, price = $3 WHERE id = $1
`, existing, combo.Stock, combo.Price)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var comboID string
	if err := pool.QueryRow(ctx, `
INSERT INTO product_variant_combinations (product_id, stock, price)
VALUES ($1, $2, $3)
RETURNING id::text
`, productID, combo.Stock, combo.Price).Scan(&comboID); err != nil {
		return err
	}
	for _, variantID := range []string{sizeID, colorID} {
		if _, err := pool.Exec(ctx, `
INSERT INTO combination_variants (combination_id, variant_id) VALUES ($1, $2)
`, comboID, variantID); err != nil {
			return err
		}
	}
	return nil
}

func ensureVariant(ctx context.Context, pool *pgxpool.Pool, key, value string) (string, error) {
	const q = `
INSERT INTO variants (key, value)
VALUES ($1, $2)
ON CONFLICT (key, value) DO UPDATE SET key = EXCLUDED.key
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, key, value).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertCoupon(ctx context.Context, pool *pgxpool.Pool, code string, discount float64, typ string, usageLimit int) error {
	const q = `
INSERT INTO coupons (code, discount, type, usage_limit)
VALUES ($1, $2, $3, $4)
ON CONFLICT (code) DO UPDATE
SET discount = EXCLUDED.discount,
    type = EXCLUDED.type,
    usage_limit = EXCLUDED.usage_limit
`
	_, err := pool.Exec(ctx, q, code, discount, typ, usageLimit)
	return err
}
