package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/service"
)

func TestCatalogHandler_Home(t *testing.T) {
	catalog := &mockCatalogService{
		homeFunc: func(ctx context.Context) (*service.Home, error) {
			return &service.Home{
				Featured:      []service.Product{sampleProduct()},
				FeaturedCases: []service.Case{{ID: 3, Name: "2024 Case A", Slug: "2024-case-a", Year: 2024, SeriesLetter: "A", CarsPerCase: 72, PriceCents: 15999, Stock: 2}},
				Categories:    []service.Category{{Name: "Muscle Cars", Slug: "muscle-cars", TypeLabel: "Muscle"}},
			}, nil
		},
	}
	h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

	rec := httptest.NewRecorder()
	h.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Camaro", "$9.99", "$12.99", "Treasure Hunt", "2024 Case A", "/category/muscle-cars", "/cart/add/product/1"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestCatalogHandler_Products_ParsesFilter(t *testing.T) {
	var got service.ProductFilter
	catalog := &mockCatalogService{
		listProductsFunc: func(ctx context.Context, filter service.ProductFilter) (*service.ProductListing, error) {
			got = filter
			return &service.ProductListing{Filter: filter}, nil
		},
	}
	h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?q=camaro&category=muscle&brand=4&scale=1:64&is_treasure_hunt=1&min_price=5&max_price=20&sort=price_asc", nil)
	h.Products(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := service.ProductFilter{
		Query:        "camaro",
		CategorySlug: "muscle",
		BrandID:      4,
		Scale:        "1:64",
		TreasureHunt: true,
		MinPrice:     "5",
		MaxPrice:     "20",
		Sort:         "price_asc",
	}
	if got != want {
		t.Errorf("filter = %+v, want %+v", got, want)
	}
	if !strings.Contains(rec.Body.String(), "No cars match those filters") {
		t.Error("expected empty listing message")
	}
}

func TestCatalogHandler_ProductDetail(t *testing.T) {
	tests := []struct {
		name           string
		user           *domain.User
		detailErr      error
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:           "anonymous sees login prompt",
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, "to write a review") {
					t.Error("expected login prompt for reviews")
				}
				if strings.Contains(body, "/wishlist/toggle/1") {
					t.Error("anonymous shopper should not see the wishlist button")
				}
			},
		},
		{
			name:           "logged in sees review form and wishlist",
			user:           testUser,
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, "Write a review") {
					t.Error("expected review form")
				}
				if !strings.Contains(body, "Remove from wishlist") {
					t.Error("expected wishlist state")
				}
				if !strings.Contains(body, "Great casting") {
					t.Error("expected review title")
				}
			},
		},
		{
			name:           "unknown slug is 404",
			detailErr:      service.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, "Product not found") {
					t.Error("expected not found message")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var viewer int64 = -1
			catalog := &mockCatalogService{
				getProductDetailFunc: func(ctx context.Context, slug string, viewerID int64) (*service.ProductDetail, error) {
					viewer = viewerID
					if tt.detailErr != nil {
						return nil, tt.detailErr
					}
					return &service.ProductDetail{
						Product:       sampleProduct(),
						Reviews:       []service.Review{{Rating: 5, Title: "Great casting", Body: "Love it", Author: "Brian"}},
						AverageRating: 5,
						ReviewCount:   1,
						InWishlist:    viewerID != 0,
					}, nil
				},
			}
			h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

			req := httptest.NewRequest(http.MethodGet, "/products/67-camaro", nil)
			req.SetPathValue("slug", "67-camaro")
			wantViewer := int64(0)
			if tt.user != nil {
				req = asUser(req, tt.user)
				wantViewer = tt.user.ID
			}
			rec := httptest.NewRecorder()
			h.ProductDetail(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if viewer != wantViewer {
				t.Errorf("viewerID = %d, want %d", viewer, wantViewer)
			}
			tt.checkBody(t, rec.Body.String())
		})
	}
}

func TestCatalogHandler_SubmitReview(t *testing.T) {
	detail := func(ctx context.Context, slug string, viewerID int64) (*service.ProductDetail, error) {
		return &service.ProductDetail{Product: sampleProduct()}, nil
	}

	t.Run("anonymous is sent to login", func(t *testing.T) {
		h := NewCatalogHandler(&mockCatalogService{getProductDetailFunc: detail}, &mockReviewService{}, newTestRenderer(t))
		req := postForm("/products/67-camaro", url.Values{"rating": {"5"}})
		req.SetPathValue("slug", "67-camaro")
		rec := httptest.NewRecorder()

		h.SubmitReview(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return_to=") {
			t.Errorf("Location = %q, want login redirect", loc)
		}
	})

	t.Run("valid review redirects with flash", func(t *testing.T) {
		var got service.ReviewForm
		reviews := &mockReviewService{
			submitFunc: func(ctx context.Context, userID int64, slug string, f service.ReviewForm) (*service.Review, error) {
				if userID != testUser.ID || slug != "67-camaro" {
					t.Errorf("Submit(%d, %q)", userID, slug)
				}
				got = f
				return &service.Review{}, nil
			},
		}
		h := NewCatalogHandler(&mockCatalogService{getProductDetailFunc: detail}, reviews, newTestRenderer(t))
		req := asUser(postForm("/products/67-camaro", url.Values{"rating": {"4"}, "title": {"Nice"}, "body": {"Solid wheels"}}), testUser)
		req.SetPathValue("slug", "67-camaro")
		rec := httptest.NewRecorder()

		h.SubmitReview(rec, req)

		assertRedirect(t, rec, "/products/67-camaro")
		assertFlash(t, rec, cookie.FlashSuccess, "Review submitted!")
		if got != (service.ReviewForm{Rating: "4", Title: "Nice", Body: "Solid wheels"}) {
			t.Errorf("form = %+v", got)
		}
	})

	t.Run("invalid review re-renders with errors", func(t *testing.T) {
		reviews := &mockReviewService{
			submitFunc: func(ctx context.Context, userID int64, slug string, f service.ReviewForm) (*service.Review, error) {
				return nil, domain.NewValidationError("", "title", "This field is required.")
			},
		}
		h := NewCatalogHandler(&mockCatalogService{getProductDetailFunc: detail}, reviews, newTestRenderer(t))
		req := asUser(postForm("/products/67-camaro", url.Values{"rating": {"4"}, "body": {"Keep my text"}}), testUser)
		req.SetPathValue("slug", "67-camaro")
		rec := httptest.NewRecorder()

		h.SubmitReview(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "This field is required.") {
			t.Error("expected field error")
		}
		if !strings.Contains(body, "Keep my text") {
			t.Error("expected submitted body to be kept")
		}
	})
}

func TestCatalogHandler_Search(t *testing.T) {
	catalog := &mockCatalogService{
		searchFunc: func(ctx context.Context, query string) (*service.SearchResults, error) {
			if query != "bone shaker" {
				t.Errorf("query = %q", query)
			}
			return &service.SearchResults{Query: query}, nil
		},
	}
	h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/search?q=bone+shaker", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nothing matched your search") {
		t.Error("expected no results message")
	}
}

func TestCatalogHandler_CaseDetail(t *testing.T) {
	catalog := &mockCatalogService{
		getCaseFunc: func(ctx context.Context, slug string) (*service.Case, error) {
			return &service.Case{ID: 9, Name: "2024 Case B", Slug: slug, Year: 2024, SeriesLetter: "B", CarsPerCase: 72, PriceCents: 15999}, nil
		},
	}
	h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

	req := httptest.NewRequest(http.MethodGet, "/cases/2024-case-b", nil)
	req.SetPathValue("slug", "2024-case-b")
	rec := httptest.NewRecorder()
	h.CaseDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "$159.99") {
		t.Error("expected case price")
	}
	if !strings.Contains(body, "Sold out") {
		t.Error("expected sold out for zero stock")
	}
}

func TestCatalogHandler_ServiceErrorIs500(t *testing.T) {
	catalog := &mockCatalogService{
		listCasesFunc: func(ctx context.Context) ([]service.Case, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewCatalogHandler(catalog, &mockReviewService{}, newTestRenderer(t))

	rec := httptest.NewRecorder()
	h.Cases(rec, httptest.NewRequest(http.MethodGet, "/cases", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("internal error detail leaked to the page")
	}
}
