// Package address persists the immutable shipping and billing snapshots
// captured at order time. Writes only ever happen inside the checkout
// transaction, so every operation takes the caller's querier instead of
// owning a pool.
package address

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storefront/internal/domain"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const addressColumns = `id::text, first_name, last_name, address, apartment, city, state, postal_code, country, phone, created_at`

// CreateShipping inserts a shipping snapshot and returns the new row id.
func CreateShipping(ctx context.Context, q Querier, in domain.AddressInput) (string, error) {
	return create(ctx, q, "shipping_addresses", in)
}

// CreateBilling inserts a billing snapshot and returns the new row id.
func CreateBilling(ctx context.Context, q Querier, in domain.AddressInput) (string, error) {
	return create(ctx, q, "billing_addresses", in)
}

func create(ctx context.Context, q Querier, table string, in domain.AddressInput) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
INSERT INTO `+table+` (first_name, last_name, address, apartment, city, state, postal_code, country, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text
`, in.FirstName, in.LastName, in.Address, in.Apartment, in.City, in.State, in.PostalCode, in.Country, in.Phone).Scan(&id)
	return id, err
}

// GetShipping loads a shipping snapshot by id.
func GetShipping(ctx context.Context, q Querier, id string) (*domain.Address, error) {
	return get(ctx, q, "shipping_addresses", id)
}

// GetBilling loads a billing snapshot by id.
func GetBilling(ctx context.Context, q Querier, id string) (*domain.Address, error) {
	return get(ctx, q, "billing_addresses", id)
}

func get(ctx context.Context, q Querier, table, id string) (*domain.Address, error) {
	var a domain.Address
	err := q.QueryRow(ctx, `SELECT `+addressColumns+` FROM `+table+` WHERE id = $1`, id).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Address, &a.Apartment, &a.City,
		&a.State, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
