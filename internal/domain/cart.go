package domain

import "time"

type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CartItem struct {
	ID            string              `json:"id"`
	CartID        string              `json:"cartId"`
	ProductID     string              `json:"productId"`
	CombinationID *string             `json:"combinationId"`
	Quantity      int                 `json:"quantity"`
	CreatedAt     time.Time           `json:"createdAt"`
	Product       *Product            `json:"product,omitempty"`
	Combination   *VariantCombination `json:"variant,omitempty"`
}
