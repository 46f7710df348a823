package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VariantPair is one attribute of a combination, e.g. Size=L or Color=Red.
// Keys are free-form, but every sellable combination must carry Size and
// Color (see pricing.ResolveAttributes).
type VariantPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// VariantCombination is a purchasable SKU of a product. Stock is mutated
// only by checkout decrements and restocks, never by order edits.
type VariantCombination struct {
	ID        string        `json:"id"`
	ProductID string        `json:"productId"`
	Stock     int           `json:"stock"`
	Price     *float64      `json:"price"`
	Image     *string       `json:"image,omitempty"`
	Variants  []VariantPair `json:"variants"`
	CreatedAt time.Time     `json:"createdAt"`
}
