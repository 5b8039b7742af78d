package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"obak-storefront/internal/domain"
	"obak-storefront/internal/repository/cartstate"
	cartsvc "obak-storefront/internal/service/cart"
	"obak-storefront/internal/service/catalog"
	"obak-storefront/internal/service/dispatch"
)

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) List(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = "generated-id"
	}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductRepo) Delete(_ context.Context, id string) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func (s *stubProductRepo) GetSales(_ context.Context, id string) (int, error) {
	p, err := s.GetByID(context.Background(), id)
	if err != nil {
		return 0, err
	}
	return p.Sales, nil
}

func (s *stubProductRepo) SetSales(_ context.Context, id string, sales int) error {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Sales = sales
			return nil
		}
	}
	return domain.ErrNotFound
}

type stubCategoryRepo struct {
	categories []domain.Category
}

func (s *stubCategoryRepo) List(context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCategoryRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.categories = append(s.categories, c)
	return &c, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, c domain.Category) (*domain.Category, error) {
	return &c, nil
}

func (s *stubCategoryRepo) Delete(_ context.Context, id string) error {
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	return &c, nil
}

type stubDispatcher struct {
	err error
}

func (s *stubDispatcher) Dispatch(context.Context, domain.OrderRequest, string) (*dispatch.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dispatch.Receipt{Channel: "email"}, nil
}

func testRouter(t *testing.T, products []domain.Product, dispatcher dispatch.Dispatcher) (http.Handler, *cartsvc.Service) {
	t.Helper()
	catalogSvc := catalog.New(&stubProductRepo{products: products}, &stubCategoryRepo{
		categories: []domain.Category{{ID: "c1", Name: "بلاط وسيراميك"}},
	})
	cartService := cartsvc.New(cartstate.NewMemory(), nil)
	if dispatcher == nil {
		dispatcher = &stubDispatcher{}
	}
	pipeline := dispatch.NewPipeline(cartService, dispatcher, nil)

	router := buildRouter(nil, nil, Deps{
		Catalog:    catalogSvc,
		Cart:       cartService,
		Pipeline:   pipeline,
		AdminToken: "secret",
	})
	return router, cartService
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "بلاط سيراميك فاخر", Price: decimal.RequireFromString("45"), InStock: true},
		{ID: "p2", Name: "دهان جوتن فاخر", Price: decimal.RequireFromString("35"), InStock: true},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, cartKey string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cartKey != "" {
		req.Header.Set("X-Cart-Key", cartKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCartView(t *testing.T, w *httptest.ResponseRecorder) cartView {
	t.Helper()
	var view cartView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart view: %v (body %s)", err, w.Body.String())
	}
	return view
}

func TestCartEndpoints_Flow(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("add item: status %d body %s", w.Code, w.Body.String())
	}
	view := decodeCartView(t, w)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart after add: %+v", view)
	}

	// Same product again merges.
	w = doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1", "quantity": 3})
	view = decodeCartView(t, w)
	if len(view.Items) != 1 || view.Items[0].Quantity != 5 {
		t.Fatalf("expected merge to quantity 5, got %+v", view)
	}

	w = doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p2"})
	view = decodeCartView(t, w)
	if len(view.Items) != 2 || view.Items[1].Quantity != 1 {
		t.Fatalf("expected default quantity 1 for second product, got %+v", view)
	}
	if view.Total != "260.00" || view.ItemCount != 6 {
		t.Fatalf("unexpected totals %+v", view)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1", "quantity": 0})
	view = decodeCartView(t, w)
	if len(view.Items) != 1 || view.Items[0].Product.ID != "p2" {
		t.Fatalf("expected zero quantity to remove line, got %+v", view)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/cart/items/p2", "k1", nil)
	view = decodeCartView(t, w)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", view)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/cart", "k1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear cart: status %d", w.Code)
	}
}

func TestNewCartKey(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/cart/key", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new cart key: status %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["cart_key"] == "" {
		t.Fatalf("expected a cart key, got %+v", resp)
	}

	second := doJSON(t, router, http.MethodPost, "/api/cart/key", "", nil)
	var other map[string]string
	json.Unmarshal(second.Body.Bytes(), &other)
	if other["cart_key"] == resp["cart_key"] {
		t.Fatalf("expected unique keys per request")
	}
}

func TestCartEndpoints_RequireCartKey(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/cart", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without X-Cart-Key, got %d", w.Code)
	}
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestAddCartItem_NegativeQuantity(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1", "quantity": -2})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", w.Code)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/cart/checkout", "k1", map[string]interface{}{"contact": "x@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "السلة فارغة" {
		t.Fatalf("expected empty-cart message, got %+v", resp)
	}
}

func TestCheckout_MissingContact(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1"})
	w := doJSON(t, router, http.MethodPost, "/api/cart/checkout", "k1", map[string]interface{}{"contact": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing contact, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "البريد الإلكتروني مطلوب" {
		t.Fatalf("expected contact-required message, got %+v", resp)
	}
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	router, cartService := testRouter(t, testProducts(), nil)

	doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1"})
	w := doJSON(t, router, http.MethodPost, "/api/cart/checkout", "k1", map[string]interface{}{"contact": "x@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: status %d body %s", w.Code, w.Body.String())
	}

	cart, err := cartService.Snapshot(context.Background(), "k1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !cart.Empty() {
		t.Fatalf("expected cart cleared after checkout, got %+v", cart.Lines)
	}
}

func TestCheckout_DispatchFailure(t *testing.T) {
	router, cartService := testRouter(t, testProducts(), &stubDispatcher{err: context.DeadlineExceeded})

	doJSON(t, router, http.MethodPost, "/api/cart/items", "k1", map[string]interface{}{"product_id": "p1"})
	w := doJSON(t, router, http.MethodPost, "/api/cart/checkout", "k1", map[string]interface{}{"contact": "x@example.com"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for dispatch failure, got %d", w.Code)
	}

	cart, err := cartService.Snapshot(context.Background(), "k1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if cart.Empty() {
		t.Fatalf("cart must be kept when dispatch fails")
	}
}

func TestStorefrontReads(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list products: status %d", w.Code)
	}
	var products []domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	w = doJSON(t, router, http.MethodGet, "/api/products/p1", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get product: status %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/products/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list categories: status %d", w.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	body := map[string]interface{}{"name": "منتج جديد", "price": "10"}

	w := doJSON(t, router, http.MethodPost, "/api/admin/products", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(`{"name":"منتج جديد","price":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString(`{"name":"منتج جديد","price":"10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 with valid token, got %d body %s", w.Code, w.Body.String())
	}
}

func TestAdminAuth_NotConfigured(t *testing.T) {
	catalogSvc := catalog.New(&stubProductRepo{}, &stubCategoryRepo{})
	cartService := cartsvc.New(cartstate.NewMemory(), nil)
	router := buildRouter(nil, nil, Deps{
		Catalog:  catalogSvc,
		Cart:     cartService,
		Pipeline: dispatch.NewPipeline(cartService, &stubDispatcher{}, nil),
	})

	w := doJSON(t, router, http.MethodPost, "/api/admin/products", "", map[string]interface{}{"name": "x"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when admin token unset, got %d", w.Code)
	}
}

func TestAssistantChat_NotConfigured(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodPost, "/api/assistant/chat", "", map[string]interface{}{"message": "مرحبا"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when assistant unset, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t, testProducts(), nil)

	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", w.Code)
	}

	// No db pool wired in tests, so readiness reports unavailable.
	w = doJSON(t, router, http.MethodGet, "/readyz", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: status %d", w.Code)
	}
}
