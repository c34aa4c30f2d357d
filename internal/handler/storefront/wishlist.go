package storefront

import (
	"net/http"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
	renderer        *handler.Renderer
}

func NewWishlistHandler(wishlistService service.WishlistService, renderer *handler.Renderer) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		renderer:        renderer,
	}
}

// View handles GET /wishlist
func (h *WishlistHandler) View(w http.ResponseWriter, r *http.Request) {
	products, err := h.wishlistService.List(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "wishlist", handler.Data{
		"Title":    "My Wishlist",
		"Products": products,
	})
}

// Toggle handles GET and POST /wishlist/toggle/{product_id}
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "product_id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	added, _, err := h.wishlistService.Toggle(r.Context(), domain.UserIDFromContext(r.Context()), productID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	if added {
		h.renderer.Flash(w, r, cookie.FlashSuccess, "Added to wishlist!")
	} else {
		h.renderer.Flash(w, r, cookie.FlashInfo, "Removed from wishlist.")
	}
	redirectBack(w, r, "/wishlist")
}
