package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

// CheckoutHandler turns the cart into an order.
type CheckoutHandler struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
	renderer        *handler.Renderer
}

func NewCheckoutHandler(cartService service.CartService, checkoutService service.CheckoutService, renderer *handler.Renderer) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		renderer:        renderer,
	}
}

// Page handles GET /checkout
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())
	h.render(w, r, http.StatusOK, h.checkoutService.NewForm(user), nil)
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var f service.CheckoutForm
	if err := form.Decode(r, &f); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), domain.UserIDFromContext(r.Context()), f)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyCart):
		h.emptyCart(w, r)
		return
	case domain.IsValidationError(err):
		h.render(w, r, http.StatusBadRequest, f, domain.GetValidationFields(err))
		return
	default:
		h.renderer.Error(w, r, err)
		return
	}

	id := strconv.FormatInt(order.Order.ID, 10)
	h.renderer.Flash(w, r, cookie.FlashSuccess, "Order #"+id+" placed successfully! 🏁")
	http.Redirect(w, r, "/orders/"+id, http.StatusSeeOther)
}

func (h *CheckoutHandler) render(w http.ResponseWriter, r *http.Request, status int, f service.CheckoutForm, errs map[string]string) {
	summary, err := h.cartService.GetCartSummary(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	if summary.IsEmpty() {
		h.emptyCart(w, r)
		return
	}

	h.renderer.Render(w, r, status, "checkout", handler.Data{
		"Title":   "Checkout",
		"Summary": summary,
		"Form":    f,
		"Errors":  errs,
	})
}

func (h *CheckoutHandler) emptyCart(w http.ResponseWriter, r *http.Request) {
	h.renderer.Flash(w, r, cookie.FlashWarning, "Your cart is empty.")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
