package pricing

import (
	"errors"
	"testing"

	"storefront/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestEffectiveUnitPrice(t *testing.T) {
	combo := domain.VariantCombination{Price: floatPtr(100)}
	product := domain.Product{Price: 100, Discount: 10}

	got, err := EffectiveUnitPrice(combo, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 90 {
		t.Fatalf("expected 90, got %v", got)
	}
}

func TestEffectiveUnitPriceNoDiscount(t *testing.T) {
	combo := domain.VariantCombination{Price: floatPtr(49.5)}
	got, err := EffectiveUnitPrice(combo, domain.Product{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 49.5 {
		t.Fatalf("expected 49.5, got %v", got)
	}
}

func TestEffectiveUnitPriceMissingPrice(t *testing.T) {
	_, err := EffectiveUnitPrice(domain.VariantCombination{}, domain.Product{})
	if !errors.Is(err, domain.ErrMissingPrice) {
		t.Fatalf("expected ErrMissingPrice, got %v", err)
	}
}

func TestResolveAttributes(t *testing.T) {
	combo := domain.VariantCombination{Variants: []domain.VariantPair{
		{Key: "Color", Value: "Red"},
		{Key: "Size", Value: "L"},
		{Key: "Material", Value: "Cotton"},
	}}

	size, color, err := ResolveAttributes(combo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != "L" || color != "Red" {
		t.Fatalf("expected L/Red, got %s/%s", size, color)
	}
}

func TestResolveAttributesIncomplete(t *testing.T) {
	cases := [][]domain.VariantPair{
		nil,
		{{Key: "Size", Value: "M"}},
		{{Key: "Color", Value: "Blue"}},
		{{Key: "size", Value: "M"}, {Key: "Color", Value: "Blue"}},
	}
	for _, pairs := range cases {
		_, _, err := ResolveAttributes(domain.VariantCombination{Variants: pairs})
		if !errors.Is(err, domain.ErrIncompleteVariant) {
			t.Fatalf("pairs %+v: expected ErrIncompleteVariant, got %v", pairs, err)
		}
	}
}
