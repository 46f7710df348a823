package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	addressrepo "storefront/internal/repository/address"
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

const orderColumns = `id::text, user_id, total_amount, discount_amount, shipping_amount,
coupon_code, coupon_id::text, shipping_address_id::text, billing_address_id::text,
contact_phone, contact_email, payment_method, status, tracking_number, delivered_at,
created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	shippingID, err := addressrepo.CreateShipping(ctx, tx, in.Shipping)
	if err != nil {
		return nil, err
	}

	var billingID *string
	if in.Billing != nil {
		id, err := addressrepo.CreateBilling(ctx, tx, *in.Billing)
		if err != nil {
			return nil, err
		}
		billingID = &id
	}

	var orderID string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_amount, discount_amount, shipping_amount,
                    coupon_code, coupon_id, shipping_address_id, billing_address_id,
                    contact_phone, contact_email, payment_method, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending')
RETURNING id::text
`, in.UserID, in.TotalAmount, in.DiscountAmount, in.ShippingAmount,
		in.CouponCode, in.CouponID, shippingID, billingID,
		in.ContactPhone, in.ContactEmail, in.PaymentMethod).Scan(&orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price, size, color)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, item.ProductID, item.Quantity, item.Price, item.Size, item.Color); err != nil {
			return nil, err
		}
	}

	if in.CouponID != nil {
		if err := incrementCouponUsage(ctx, tx, *in.CouponID); err != nil {
			return nil, err
		}
	}

	for _, item := range in.Items {
		if err := decrementStock(ctx, tx, item); err != nil {
			r.logger.Printf("order repo: create aborted user_id=%s product_id=%s size=%s color=%s quantity=%d error=%v",
				in.UserID, item.ProductID, item.Size, item.Color, item.Quantity, err)
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
USING carts
WHERE carts.id = cart_items.cart_id AND carts.user_id = $1
`, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("order repo: created id=%s user_id=%s items=%d total=%.2f", orderID, in.UserID, len(in.Items), in.TotalAmount)
	return r.GetByID(ctx, orderID)
}

// incrementCouponUsage claims one usage slot. The cap check is part of the
// UPDATE, so the slot cannot be claimed past the limit even when the
// orchestrator's earlier read saw capacity.
func incrementCouponUsage(ctx context.Context, tx pgx.Tx, couponID string) error {
	cmd, err := tx.Exec(ctx, `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
`, couponID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCouponExhausted
	}
	return nil
}

// decrementStock subtracts a line's quantity from the matching combination.
// The row is matched by product plus the Size/Color snapshot, with the
// stock guard inside the UPDATE so concurrent checkouts serialize on the
// row and can never overdraw it.
func decrementStock(ctx context.Context, tx pgx.Tx, item domain.OrderItem) error {
	cmd, err := tx.Exec(ctx, `
UPDATE product_variant_combinations pvc
SET stock = pvc.stock - $2
WHERE pvc.product_id = $1
  AND pvc.stock >= $2
  AND EXISTS (
      SELECT 1
      FROM combination_variants cv
      JOIN variants v ON v.id = cv.variant_id
      WHERE cv.combination_id = pvc.id AND v.key = 'Size' AND v.value = $3
  )
  AND EXISTS (
      SELECT 1
      FROM combination_variants cv
      JOIN variants v ON v.id = cv.variant_id
      WHERE cv.combination_id = pvc.id AND v.key = 'Color' AND v.value = $4
  )
`, item.ProductID, item.Quantity, item.Size, item.Color)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o domain.Order
	if err := r.scanOrder(r.pool.QueryRow(ctx, q, id), &o); err != nil {
		return nil, err
	}
	orders := []*domain.Order{&o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	if err := r.attachAddresses(ctx, orders); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context, page, limit int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
OFFSET $1 LIMIT $2
`
	orders, err := r.list(ctx, q, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, from, to string, trackingNumber *string, deliveredAt *time.Time) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $2,
    tracking_number = COALESCE($3, tracking_number),
    delivered_at = COALESCE($4, delivered_at),
    updated_at = now()
WHERE id = $1 AND status = $5
`, id, to, trackingNumber, deliveredAt, from)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrInvalidTransition
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := r.scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Order, len(result))
	for i := range result {
		refs[i] = &result[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	if err := r.attachAddresses(ctx, refs); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresRepo) scanOrder(row rowScanner, o *domain.Order) error {
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.DiscountAmount, &o.ShippingAmount,
		&o.CouponCode, &o.CouponID, &o.ShippingAddressID, &o.BillingAddressID,
		&o.ContactPhone, &o.ContactEmail, &o.PaymentMethod, &o.Status, &o.TrackingNumber, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []domain.OrderItem{}
	}

	const q = `
SELECT oi.id::text, oi.order_id::text, oi.product_id::text, oi.quantity, oi.price, oi.size, oi.color,
       p.id::text, p.name, p.slug, COALESCE(p.description, ''), p.price, p.discount, p.stock, COALESCE(p.image, ''), p.created_at
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ANY($1)
ORDER BY oi.id
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.Size, &item.Color,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Discount, &p.Stock, &p.Image, &p.CreatedAt,
		); err != nil {
			return err
		}
		item.Product = &p
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) attachAddresses(ctx context.Context, orders []*domain.Order) error {
	for _, o := range orders {
		shipping, err := addressrepo.GetShipping(ctx, r.pool, o.ShippingAddressID)
		if err != nil {
			return err
		}
		o.ShippingAddress = shipping

		if o.BillingAddressID != nil {
			billing, err := addressrepo.GetBilling(ctx, r.pool, *o.BillingAddressID)
			if err != nil {
				return err
			}
			o.BillingAddress = billing
		}
	}
	return nil
}
