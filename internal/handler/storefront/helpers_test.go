package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
	"github.com/dukerupert/route66/web"
)

var testCookies = cookie.NewConfig(false)

func newTestRenderer(t *testing.T) *handler.Renderer {
	t.Helper()
	renderer, err := handler.NewRenderer(web.Templates, testCookies, "Route66")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return renderer
}

var testUser = &domain.User{ID: 7, Email: "driver@example.com", FirstName: "Dom", LastName: "Toretto"}

// asUser attaches user to the request context the way WithUser does.
func asUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(domain.NewContextWithUser(r.Context(), user))
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// flashesFrom returns the flashes a handler queued on rec.
func flashesFrom(rec *httptest.ResponseRecorder) []cookie.Flash {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return testCookies.PopFlashes(httptest.NewRecorder(), req)
}

func assertFlash(t *testing.T, rec *httptest.ResponseRecorder, level, message string) {
	t.Helper()
	for _, f := range flashesFrom(rec) {
		if f.Level == level && f.Message == message {
			return
		}
	}
	t.Errorf("expected %s flash %q, got %+v", level, message, flashesFrom(rec))
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}

// mockCatalogService implements service.CatalogService for testing
type mockCatalogService struct {
	homeFunc              func(ctx context.Context) (*service.Home, error)
	listProductsFunc      func(ctx context.Context, filter service.ProductFilter) (*service.ProductListing, error)
	getProductDetailFunc  func(ctx context.Context, slug string, viewerID int64) (*service.ProductDetail, error)
	getCategoryDetailFunc func(ctx context.Context, slug string) (*service.CategoryDetail, error)
	listCasesFunc         func(ctx context.Context) ([]service.Case, error)
	getCaseFunc           func(ctx context.Context, slug string) (*service.Case, error)
	searchFunc            func(ctx context.Context, query string) (*service.SearchResults, error)
}

func (m *mockCatalogService) Home(ctx context.Context) (*service.Home, error) {
	if m.homeFunc != nil {
		return m.homeFunc(ctx)
	}
	return &service.Home{}, nil
}

func (m *mockCatalogService) ListProducts(ctx context.Context, filter service.ProductFilter) (*service.ProductListing, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, filter)
	}
	return &service.ProductListing{Filter: filter}, nil
}

func (m *mockCatalogService) GetProductDetail(ctx context.Context, slug string, viewerID int64) (*service.ProductDetail, error) {
	if m.getProductDetailFunc != nil {
		return m.getProductDetailFunc(ctx, slug, viewerID)
	}
	return nil, service.ErrProductNotFound
}

func (m *mockCatalogService) GetCategoryDetail(ctx context.Context, slug string) (*service.CategoryDetail, error) {
	if m.getCategoryDetailFunc != nil {
		return m.getCategoryDetailFunc(ctx, slug)
	}
	return nil, service.ErrCategoryNotFound
}

func (m *mockCatalogService) ListCases(ctx context.Context) ([]service.Case, error) {
	if m.listCasesFunc != nil {
		return m.listCasesFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) GetCase(ctx context.Context, slug string) (*service.Case, error) {
	if m.getCaseFunc != nil {
		return m.getCaseFunc(ctx, slug)
	}
	return nil, service.ErrCaseNotFound
}

func (m *mockCatalogService) Search(ctx context.Context, query string) (*service.SearchResults, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return &service.SearchResults{Query: query}, nil
}

// mockReviewService implements service.ReviewService for testing
type mockReviewService struct {
	submitFunc func(ctx context.Context, userID int64, slug string, f service.ReviewForm) (*service.Review, error)
}

func (m *mockReviewService) Submit(ctx context.Context, userID int64, slug string, f service.ReviewForm) (*service.Review, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, userID, slug, f)
	}
	return &service.Review{}, nil
}

// mockCartService implements service.CartService for testing
type mockCartService struct {
	addProductFunc     func(ctx context.Context, userID, productID int64) (*service.CartLine, error)
	addCaseFunc        func(ctx context.Context, userID, caseID int64) (*service.CartLine, error)
	removeItemFunc     func(ctx context.Context, userID, itemID int64) error
	setQuantityFunc    func(ctx context.Context, userID, itemID int64, quantity int32) error
	getCartSummaryFunc func(ctx context.Context, userID int64) (*service.CartSummary, error)
}

func (m *mockCartService) AddProduct(ctx context.Context, userID, productID int64) (*service.CartLine, error) {
	if m.addProductFunc != nil {
		return m.addProductFunc(ctx, userID, productID)
	}
	return &service.CartLine{ItemID: productID, Quantity: 1}, nil
}

func (m *mockCartService) AddCase(ctx context.Context, userID, caseID int64) (*service.CartLine, error) {
	if m.addCaseFunc != nil {
		return m.addCaseFunc(ctx, userID, caseID)
	}
	return &service.CartLine{ItemID: caseID, Quantity: 1}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, userID, itemID)
	}
	return nil
}

func (m *mockCartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int32) error {
	if m.setQuantityFunc != nil {
		return m.setQuantityFunc(ctx, userID, itemID, quantity)
	}
	return nil
}

func (m *mockCartService) GetCartSummary(ctx context.Context, userID int64) (*service.CartSummary, error) {
	if m.getCartSummaryFunc != nil {
		return m.getCartSummaryFunc(ctx, userID)
	}
	return &service.CartSummary{}, nil
}

func (m *mockCartService) CountUnits(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

// mockCheckoutService implements service.CheckoutService for testing
type mockCheckoutService struct {
	placeOrderFunc func(ctx context.Context, userID int64, f service.CheckoutForm) (*service.OrderDetail, error)
}

func (m *mockCheckoutService) NewForm(user *domain.User) service.CheckoutForm {
	if user == nil {
		return service.CheckoutForm{}
	}
	return service.CheckoutForm{FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}
}

func (m *mockCheckoutService) PlaceOrder(ctx context.Context, userID int64, f service.CheckoutForm) (*service.OrderDetail, error) {
	if m.placeOrderFunc != nil {
		return m.placeOrderFunc(ctx, userID, f)
	}
	return nil, nil
}

// mockOrderService implements service.OrderService for testing
type mockOrderService struct {
	listForUserFunc func(ctx context.Context, userID int64) ([]service.Order, error)
	getForUserFunc  func(ctx context.Context, userID, orderID int64) (*service.OrderDetail, error)
}

func (m *mockOrderService) ListForUser(ctx context.Context, userID int64) ([]service.Order, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockOrderService) GetForUser(ctx context.Context, userID, orderID int64) (*service.OrderDetail, error) {
	if m.getForUserFunc != nil {
		return m.getForUserFunc(ctx, userID, orderID)
	}
	return nil, service.ErrOrderNotFound
}

func (m *mockOrderService) ListAll(ctx context.Context, status string) ([]service.Order, error) {
	return nil, nil
}

func (m *mockOrderService) Get(ctx context.Context, orderID int64) (*service.OrderDetail, error) {
	return nil, service.ErrOrderNotFound
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID int64, status, tracking string) (*service.Order, error) {
	return nil, nil
}

// mockWishlistService implements service.WishlistService for testing
type mockWishlistService struct {
	toggleFunc func(ctx context.Context, userID, productID int64) (bool, string, error)
	listFunc   func(ctx context.Context, userID int64) ([]service.Product, error)
}

func (m *mockWishlistService) Toggle(ctx context.Context, userID, productID int64) (bool, string, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, userID, productID)
	}
	return true, "", nil
}

func (m *mockWishlistService) List(ctx context.Context, userID int64) ([]service.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}

// mockUserService implements service.UserService for testing
type mockUserService struct {
	registerFunc      func(ctx context.Context, f service.SignupForm) (*domain.User, error)
	authenticateFunc  func(ctx context.Context, f service.LoginForm) (*domain.User, error)
	deleteSessionFunc func(ctx context.Context, token string) error
}

func (m *mockUserService) Register(ctx context.Context, f service.SignupForm) (*domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, f)
	}
	return testUser, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, f service.LoginForm) (*domain.User, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, f)
	}
	return testUser, nil
}

func (m *mockUserService) CreateSession(ctx context.Context, userID int64) (string, time.Time, error) {
	return "session-token", time.Now().Add(time.Hour), nil
}

func (m *mockUserService) GetUserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	return nil, service.ErrSessionNotFound
}

func (m *mockUserService) DeleteSession(ctx context.Context, token string) error {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, token)
	}
	return nil
}

func (m *mockUserService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

func sampleProduct() service.Product {
	return service.Product{
		ID:                1,
		Name:              "'67 Camaro",
		Slug:              "67-camaro",
		PriceCents:        1299,
		DisplayPriceCents: 999,
		DiscountPercent:   23,
		Stock:             4,
		Scale:             "1:64",
		IsTreasureHunt:    true,
	}
}
