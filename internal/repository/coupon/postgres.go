package coupon

import (
	"context"
	"errors"
	"strings"

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

const couponColumns = `id::text, code, discount, type, expires_at, usage_limit, usage_count, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCouponInput) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, discount, type, expires_at, usage_limit)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + couponColumns + `
`
	var c domain.Coupon
	err := r.pool.QueryRow(ctx, q, strings.ToUpper(in.Code), in.Discount, in.Type, in.ExpiresAt, in.UsageLimit).Scan(
		&c.ID, &c.Code, &c.Discount, &c.Type, &c.ExpiresAt, &c.UsageLimit, &c.UsageCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `
SELECT ` + couponColumns + `
FROM coupons
WHERE code = $1
`
	var c domain.Coupon
	err := r.pool.QueryRow(ctx, q, strings.ToUpper(code)).Scan(
		&c.ID, &c.Code, &c.Discount, &c.Type, &c.ExpiresAt, &c.UsageLimit, &c.UsageCount, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	const q = `
SELECT ` + couponColumns + `
FROM coupons
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Discount, &c.Type, &c.ExpiresAt, &c.UsageLimit, &c.UsageCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) DeleteByCode(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code = $1`, strings.ToUpper(code))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementUsage records one use against the cap. The guard sits in the
// UPDATE so a usage slot can never be claimed past the limit, regardless
// of what an earlier read of usage_count saw.
func (r *postgresRepo) IncrementUsage(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrCouponExhausted
	}
	return nil
}
