package storefront

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cartService service.CartService
	renderer    *handler.Renderer
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService, renderer *handler.Renderer) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		renderer:    renderer,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartService.GetCartSummary(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "cart", handler.Data{
		"Title":   "Your Cart",
		"Summary": summary,
	})
}

// AddProduct handles POST /cart/add/product/{id}
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, h.cartService.AddProduct)
}

// AddCase handles POST /cart/add/case/{id}
func (h *CartHandler) AddCase(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, h.cartService.AddCase)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, userID, id int64) (*service.CartLine, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		h.renderer.Flash(w, r, cookie.FlashError, "Invalid item.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := add(r.Context(), domain.UserIDFromContext(r.Context()), id); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			h.renderer.Error(w, r, err)
			return
		}
		h.renderer.FlashError(w, r, err)
		redirectBack(w, r, "/cart")
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Added to cart!")
	redirectBack(w, r, "/cart")
}

// Remove handles POST /cart/remove/{item_id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "item_id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), domain.UserIDFromContext(r.Context()), itemID); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Removed from cart.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Update handles POST /cart/update/{item_id}. A quantity below one
// removes the line. A missing quantity counts as one.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "item_id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	quantity := int64(1)
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		q, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			h.renderer.Flash(w, r, cookie.FlashError, "Enter a whole number for the quantity.")
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		quantity = q
	}

	if err := h.cartService.SetQuantity(r.Context(), domain.UserIDFromContext(r.Context()), itemID, int32(quantity)); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
