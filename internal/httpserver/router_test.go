package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/payment"
	catalogrepo "storefront/internal/repository/catalog"
	couponrepo "storefront/internal/repository/coupon"
	orderrepo "storefront/internal/repository/order"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	ordersvc "storefront/internal/service/order"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubCatalogRepo struct {
	products map[string]*domain.Product
	combos   map[string]*domain.VariantCombination
}

func (s *stubCatalogRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogRepo) GetCombination(_ context.Context, id string) (*domain.VariantCombination, error) {
	if c, ok := s.combos[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalogRepo) CreateCombination(_ context.Context, in catalogrepo.CreateCombinationInput) (*domain.VariantCombination, error) {
	return &domain.VariantCombination{ID: "new-combo", ProductID: in.ProductID, Stock: in.Stock, Price: in.Price}, nil
}

func (s *stubCatalogRepo) ListCombinationsByProduct(_ context.Context, productID string) ([]domain.VariantCombination, error) {
	var result []domain.VariantCombination
	for _, c := range s.combos {
		if c.ProductID == productID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (s *stubCatalogRepo) ListCombinations(_ context.Context) ([]domain.VariantCombination, error) {
	var result []domain.VariantCombination
	for _, c := range s.combos {
		result = append(result, *c)
	}
	return result, nil
}

func (s *stubCatalogRepo) ListLowStock(_ context.Context, threshold int) ([]domain.VariantCombination, error) {
	var result []domain.VariantCombination
	for _, c := range s.combos {
		if c.Stock < threshold {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (s *stubCatalogRepo) SetStock(_ context.Context, combinationID string, stock int) (*domain.VariantCombination, error) {
	c, ok := s.combos[combinationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Stock = stock
	return c, nil
}

func (s *stubCatalogRepo) CheckAvailability(_ context.Context, combinationID string, quantity int) (bool, int, error) {
	c, ok := s.combos[combinationID]
	if !ok {
		return false, 0, domain.ErrNotFound
	}
	return c.Stock >= quantity, c.Stock, nil
}

func (s *stubCatalogRepo) Decrement(_ context.Context, combinationID string, quantity int) error {
	c, ok := s.combos[combinationID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	c.Stock -= quantity
	return nil
}

func (s *stubCatalogRepo) Restock(_ context.Context, combinationID string, quantity int) (*domain.VariantCombination, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	c, ok := s.combos[combinationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Stock += quantity
	return c, nil
}

type stubOrderCommit struct {
	err   error
	calls int
}

func (s *stubOrderCommit) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: "order-1", UserID: in.UserID, TotalAmount: in.TotalAmount, Status: domain.StatusPending}, nil
}

type stubOrderStore struct {
	order *domain.Order
	list  []domain.Order
	total int
}

func (s *stubOrderStore) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	if s.order == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) ListByUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.list, nil
}

func (s *stubOrderStore) ListAll(_ context.Context, _, _ int) ([]domain.Order, int, error) {
	return s.list, s.total, nil
}

func (s *stubOrderStore) UpdateStatus(_ context.Context, _, _, to string, _ *string, _ *time.Time) (*domain.Order, error) {
	updated := *s.order
	updated.Status = to
	return &updated, nil
}

type stubCouponStore struct {
	coupons map[string]*domain.Coupon
}

func (s *stubCouponStore) Create(_ context.Context, in couponrepo.CreateCouponInput) (*domain.Coupon, error) {
	return &domain.Coupon{ID: "cp1", Code: in.Code, Discount: in.Discount, Type: in.Type}, nil
}

func (s *stubCouponStore) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if c, ok := s.coupons[strings.ToUpper(code)]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCouponStore) List(_ context.Context) ([]domain.Coupon, error) { return nil, nil }

func (s *stubCouponStore) DeleteByCode(_ context.Context, _ string) error { return nil }

type stubCartStore struct{}

func (s *stubCartStore) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
}

func (s *stubCartStore) AddItem(_ context.Context, userID, productID string, combinationID *string, quantity int) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, Items: []domain.CartItem{{ProductID: productID, CombinationID: combinationID, Quantity: quantity}}}, nil
}

func (s *stubCartStore) ChangeItemQuantity(_ context.Context, userID, _ string, _ int) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCartStore) RemoveItem(_ context.Context, userID, _ string) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID}, nil
}

func (s *stubCartStore) ClearByUser(_ context.Context, _ string) error { return nil }

func floatPtr(v float64) *float64 { return &v }

func testCatalog() *stubCatalogRepo {
	return &stubCatalogRepo{
		products: map[string]*domain.Product{"p1": {ID: "p1", Name: "Classic Tee", Price: 100, Discount: 10, Stock: 10}},
		combos: map[string]*domain.VariantCombination{
			"c1": {
				ID: "c1", ProductID: "p1", Stock: 10, Price: floatPtr(100),
				Variants: []domain.VariantPair{{Key: "Size", Value: "L"}, {Key: "Color", Value: "Red"}},
			},
		},
	}
}

type routerOptions struct {
	orderCommit *stubOrderCommit
	orderStore  *stubOrderStore
	couponStore *stubCouponStore
}

func newTestRouter(opts routerOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if opts.orderCommit == nil {
		opts.orderCommit = &stubOrderCommit{}
	}
	if opts.orderStore == nil {
		opts.orderStore = &stubOrderStore{}
	}
	if opts.couponStore == nil {
		opts.couponStore = &stubCouponStore{}
	}
	catalog := testCatalog()
	couponSvc := couponsvc.New(opts.couponStore)

	return buildRouter(logDiscard(), nil, Deps{
		CheckoutSvc: checkoutsvc.New(catalog, couponSvc, opts.orderCommit, nil),
		OrderSvc:    ordersvc.New(opts.orderStore),
		CouponSvc:   couponSvc,
		CartSvc:     cartsvc.New(&stubCartStore{}, catalog),
		CatalogRepo: catalog,
		PaymentAuth: payment.NewSandbox(),
	})
}

const checkoutBody = `{
	"items": [{"combinationId": "c1", "productId": "p1", "quantity": 2}],
	"paymentMethod": "card",
	"shippingAmount": 15,
	"shippingAddress": {"firstName": "Ada", "address": "1 Main St", "city": "Lahore", "country": "PK", "phone": "0300-1234567"}
}`

func doJSON(router *gin.Engine, method, path, body, userID string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(routerOptions{})
	rec := doJSON(router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserMiddleware_MissingHeader(t *testing.T) {
	router := newTestRouter(routerOptions{})
	for _, probe := range []struct{ method, path string }{
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders/my-orders"},
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/payments/create"},
	} {
		rec := doJSON(router, probe.method, probe.path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", probe.method, probe.path, rec.Code)
		}
	}
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		commit := &stubOrderCommit{}
		router := newTestRouter(routerOptions{orderCommit: commit})

		rec := doJSON(router, http.MethodPost, "/api/orders", checkoutBody, "user-1")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
		}
		if commit.calls != 1 {
			t.Fatalf("expected one commit, got %d", commit.calls)
		}
		if !strings.Contains(rec.Body.String(), `"success":true`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		router := newTestRouter(routerOptions{})
		rec := doJSON(router, http.MethodPost, "/api/orders", `{"items":`, "user-1")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		router := newTestRouter(routerOptions{})
		body := `{"items": [{"combinationId": "c1", "productId": "p1", "quantity": 1}], "paymentMethod": "card"}`
		rec := doJSON(router, http.MethodPost, "/api/orders", body, "user-1")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("stock conflict", func(t *testing.T) {
		commit := &stubOrderCommit{err: domain.ErrInsufficientStock}
		router := newTestRouter(routerOptions{orderCommit: commit})

		rec := doJSON(router, http.MethodPost, "/api/orders", checkoutBody, "user-1")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
		}
	})
}

func TestAllOrdersHandlerPagination(t *testing.T) {
	store := &stubOrderStore{
		list:  []domain.Order{{ID: "o1"}, {ID: "o2"}},
		total: 5,
	}
	router := newTestRouter(routerOptions{orderStore: store})

	rec := doJSON(router, http.MethodGet, "/api/orders/all?page=1&limit=2", "", "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"totalPages":3`) || !strings.Contains(body, `"totalOrders":5`) {
		t.Fatalf("unexpected pagination envelope: %s", body)
	}
}

func TestOrderStatusHandler(t *testing.T) {
	store := &stubOrderStore{order: &domain.Order{ID: "o1", Status: domain.StatusPending}}
	router := newTestRouter(routerOptions{orderStore: store})

	rec := doJSON(router, http.MethodPut, "/api/orders/status/o1", `{"status":"processing"}`, "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"processing"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodPut, "/api/orders/status/o1", `{"status":"delivered"}`, "admin")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid transition, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPut, "/api/orders/status/o1", `{"status":"archived"}`, "admin")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}

func TestApplyCouponHandler(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	store := &stubCouponStore{coupons: map[string]*domain.Coupon{
		"SAVE10": {ID: "cp1", Code: "SAVE10", Discount: 10, Type: domain.CouponPercentage},
		"OLD":    {ID: "cp2", Code: "OLD", Discount: 10, Type: domain.CouponPercentage, ExpiresAt: &past},
	}}
	router := newTestRouter(routerOptions{couponStore: store})

	rec := doJSON(router, http.MethodPost, "/api/coupons/apply", `{"code":"SAVE10"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"discount":10`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodPost, "/api/coupons/apply", `{"code":""}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/coupons/apply", `{"code":"NOPE"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/coupons/apply", `{"code":"OLD"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for expired coupon, got %d", rec.Code)
	}
}

func TestCombinationHandlers(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := doJSON(router, http.MethodGet, "/api/product-variant-combination/low-stock/all", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"lowStock"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodPut, "/api/product-variant-combination/restock/c1", `{"quantity":5}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"stock":15`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodPut, "/api/product-variant-combination/restock/c1", `{"quantity":-1}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPut, "/api/product-variant-combination/stock/c1", `{"stock":-2}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative stock, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/product-variant-combination", `{"productId":"p1"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without variantIds, got %d", rec.Code)
	}
}

func TestCartHandlers(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := doJSON(router, http.MethodPost, "/api/cart", `{"productId":"p1","combinationId":"c1","quantity":2}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodPost, "/api/cart", `{"productId":"p1","combinationId":"c1","quantity":99}`, "user-1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for over-stock add, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/cart", `{"productId":"missing","quantity":1}`, "user-1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
}

func TestPaymentHandlers(t *testing.T) {
	router := newTestRouter(routerOptions{})

	rec := doJSON(router, http.MethodPost, "/api/payments/create", `{"amount":195}`, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id"`) {
		t.Fatalf("expected payment reference, got %s", rec.Body.String())
	}

	rec = doJSON(router, http.MethodPost, "/api/payments/create", `{"amount":0}`, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero amount, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/payments/capture/ref-1", "", "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}
