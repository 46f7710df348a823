package cart

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubCartRepo struct {
	addCalls    int
	removeCalls int
	changeCalls int
	lastQty     int
}

func (s *stubCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCartRepo) AddItem(_ context.Context, userID, productID string, combinationID *string, quantity int) (*domain.Cart, error) {
	s.addCalls++
	s.lastQty = quantity
	return &domain.Cart{UserID: userID, Items: []domain.CartItem{{ProductID: productID, CombinationID: combinationID, Quantity: quantity}}}, nil
}

func (s *stubCartRepo) ChangeItemQuantity(_ context.Context, userID, _ string, quantity int) (*domain.Cart, error) {
	s.changeCalls++
	s.lastQty = quantity
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCartRepo) RemoveItem(_ context.Context, userID, _ string) (*domain.Cart, error) {
	s.removeCalls++
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCartRepo) ClearByUser(_ context.Context, _ string) error { return nil }

type stubCatalog struct {
	products map[string]*domain.Product
	combos   map[string]*domain.VariantCombination
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) GetCombination(_ context.Context, id string) (*domain.VariantCombination, error) {
	if c, ok := s.combos[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func strPtr(v string) *string { return &v }

func testCatalog() *stubCatalog {
	return &stubCatalog{
		products: map[string]*domain.Product{"p1": {ID: "p1", Stock: 5}},
		combos: map[string]*domain.VariantCombination{
			"c1": {ID: "c1", ProductID: "p1", Stock: 2},
			"c2": {ID: "c2", ProductID: "other", Stock: 9},
		},
	}
}

func TestAdd(t *testing.T) {
	cases := []struct {
		name   string
		in     AddInput
		expect error
	}{
		{name: "product level", in: AddInput{ProductID: "p1", Quantity: 3}},
		{name: "combination level", in: AddInput{ProductID: "p1", CombinationID: strPtr("c1"), Quantity: 2}},
		{name: "zero quantity", in: AddInput{ProductID: "p1", Quantity: 0}, expect: domain.ErrInvalidQuantity},
		{name: "unknown product", in: AddInput{ProductID: "nope", Quantity: 1}, expect: domain.ErrNotFound},
		{name: "unknown combination", in: AddInput{ProductID: "p1", CombinationID: strPtr("nope"), Quantity: 1}, expect: domain.ErrNotFound},
		{name: "foreign combination", in: AddInput{ProductID: "p1", CombinationID: strPtr("c2"), Quantity: 1}, expect: domain.ErrValidation},
		{name: "over product stock", in: AddInput{ProductID: "p1", Quantity: 6}, expect: domain.ErrInsufficientStock},
		{name: "over combination stock", in: AddInput{ProductID: "p1", CombinationID: strPtr("c1"), Quantity: 3}, expect: domain.ErrInsufficientStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubCartRepo{}
			svc := New(repo, testCatalog())

			cart, err := svc.Add(context.Background(), "u1", tc.in)
			if tc.expect != nil {
				if !errors.Is(err, tc.expect) {
					t.Fatalf("expected %v, got %v", tc.expect, err)
				}
				if repo.addCalls != 0 {
					t.Fatal("expected no repository write")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cart.Items) != 1 || cart.Items[0].Quantity != tc.in.Quantity {
				t.Fatalf("unexpected cart %+v", cart)
			}
		})
	}
}

func TestChangeQuantityZeroRemoves(t *testing.T) {
	repo := &stubCartRepo{}
	svc := New(repo, testCatalog())

	if _, err := svc.ChangeQuantity(context.Background(), "u1", "item1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.removeCalls != 1 || repo.changeCalls != 0 {
		t.Fatalf("expected removal, got removes=%d changes=%d", repo.removeCalls, repo.changeCalls)
	}

	if _, err := svc.ChangeQuantity(context.Background(), "u1", "item1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.changeCalls != 1 || repo.lastQty != 4 {
		t.Fatalf("expected quantity update to 4, got changes=%d qty=%d", repo.changeCalls, repo.lastQty)
	}
}
