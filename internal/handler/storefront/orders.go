package storefront

import (
	"net/http"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

// OrderHistoryHandler shows a shopper their own orders.
type OrderHistoryHandler struct {
	orderService service.OrderService
	renderer     *handler.Renderer
}

func NewOrderHistoryHandler(orderService service.OrderService, renderer *handler.Renderer) *OrderHistoryHandler {
	return &OrderHistoryHandler{
		orderService: orderService,
		renderer:     renderer,
	}
}

// List handles GET /orders
func (h *OrderHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListForUser(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "order_list", handler.Data{
		"Title":  "My Orders",
		"Orders": orders,
	})
}

// Detail handles GET /orders/{id}
func (h *OrderHistoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	detail, err := h.orderService.GetForUser(r.Context(), domain.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "order_detail", handler.Data{
		"Title":  "Order",
		"Detail": detail,
	})
}
