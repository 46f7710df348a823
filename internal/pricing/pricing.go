// Package pricing computes effective unit prices for variant combinations
// and resolves the display attributes every sellable combination must
// expose.
package pricing

import "storefront/internal/domain"

// Canonical attribute keys. Variant keys are otherwise free-form, but
// downstream display and shipping logic requires both of these.
const (
	KeySize  = "Size"
	KeyColor = "Color"
)

// EffectiveUnitPrice applies the owning product's discount percentage to
// the combination's own price. The combination must carry a price of its
// own; the product's base price is never used as a fallback.
func EffectiveUnitPrice(combination domain.VariantCombination, product domain.Product) (float64, error) {
	if combination.Price == nil {
		return 0, domain.ErrMissingPrice
	}
	return *combination.Price * (1 - product.Discount/100), nil
}

// ResolveAttributes scans the combination's variant pairs for the
// canonical Size and Color keys.
func ResolveAttributes(combination domain.VariantCombination) (size, color string, err error) {
	for _, pair := range combination.Variants {
		switch pair.Key {
		case KeySize:
			size = pair.Value
		case KeyColor:
			color = pair.Value
		}
	}
	if size == "" || color == "" {
		return "", "", domain.ErrIncompleteVariant
	}
	return size, color, nil
}
