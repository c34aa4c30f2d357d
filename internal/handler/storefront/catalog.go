package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/service"
)

// CatalogHandler serves the browsing pages: home, product list and
// detail, categories, cases and search.
type CatalogHandler struct {
	catalog  service.CatalogService
	reviews  service.ReviewService
	renderer *handler.Renderer
}

func NewCatalogHandler(catalog service.CatalogService, reviews service.ReviewService, renderer *handler.Renderer) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		reviews:  reviews,
		renderer: renderer,
	}
}

// Home handles GET /
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Home(r.Context())
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "home", handler.Data{
		"Title": "Home",
		"Home":  home,
	})
}

// Products handles GET /products
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ProductFilter{
		Query:        q.Get("q"),
		CategorySlug: q.Get("category"),
		Scale:        q.Get("scale"),
		TreasureHunt: q.Get("is_treasure_hunt") != "",
		MinPrice:     q.Get("min_price"),
		MaxPrice:     q.Get("max_price"),
		Sort:         q.Get("sort"),
	}
	if brandID, err := strconv.ParseInt(q.Get("brand"), 10, 64); err == nil && brandID > 0 {
		filter.BrandID = brandID
	}

	listing, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "product_list", handler.Data{
		"Title":   "All Products",
		"Listing": listing,
	})
}

// ProductDetail handles GET /products/{slug}
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	h.renderProduct(w, r, http.StatusOK, service.ReviewForm{}, nil)
}

// SubmitReview handles POST /products/{slug}
func (h *CatalogHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, middleware.LoginURL(r), http.StatusSeeOther)
		return
	}

	var f service.ReviewForm
	if err := form.Decode(r, &f); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	slug := r.PathValue("slug")
	_, err := h.reviews.Submit(r.Context(), user.ID, slug, f)
	if err != nil {
		if domain.IsValidationError(err) {
			h.renderProduct(w, r, http.StatusBadRequest, f, domain.GetValidationFields(err))
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Review submitted!")
	http.Redirect(w, r, "/products/"+slug, http.StatusSeeOther)
}

func (h *CatalogHandler) renderProduct(w http.ResponseWriter, r *http.Request, status int, f service.ReviewForm, errs map[string]string) {
	detail, err := h.catalog.GetProductDetail(r.Context(), r.PathValue("slug"), domain.UserIDFromContext(r.Context()))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, r, status, "product_detail", handler.Data{
		"Title":      detail.Product.Name,
		"Detail":     detail,
		"ReviewForm": f,
		"Errors":     errs,
	})
}

// Category handles GET /category/{slug}
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetCategoryDetail(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "category_detail", handler.Data{
		"Title":  detail.Category.Name,
		"Detail": detail,
	})
}

// Cases handles GET /cases
func (h *CatalogHandler) Cases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.catalog.ListCases(r.Context())
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "case_list", handler.Data{
		"Title": "Hot Wheels Cases",
		"Cases": cases,
	})
}

// CaseDetail handles GET /cases/{slug}
func (h *CatalogHandler) CaseDetail(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.GetCase(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "case_detail", handler.Data{
		"Title": c.Name,
		"Case":  c,
	})
}

// Search handles GET /search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "search_results", handler.Data{
		"Title":   "Search",
		"Results": results,
	})
}
