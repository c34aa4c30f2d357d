package admin

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

// OrderHandler lets staff review orders and move them through fulfilment.
type OrderHandler struct {
	orderService service.OrderService
	renderer     *handler.Renderer
}

func NewOrderHandler(orderService service.OrderService, renderer *handler.Renderer) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		renderer:     renderer,
	}
}

// List handles GET /admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	orders, err := h.orderService.ListAll(r.Context(), status)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Page(w, r, "admin/orders", handler.Data{
		"Title":  "Orders",
		"Orders": orders,
		"Status": status,
	})
}

// Detail handles GET /admin/orders/{id}
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, http.StatusOK, nil)
}

func (h *OrderHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, errs map[string]string) {
	id, ok := pathID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	detail, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, r, status, "admin/order_detail", handler.Data{
		"Title":  "Order #" + strconv.FormatInt(id, 10),
		"Detail": detail,
		"Errors": errs,
	})
}

// UpdateStatus handles POST /admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	_, err := h.orderService.UpdateStatus(r.Context(), id, r.FormValue("status"), r.FormValue("tracking_number"))
	if err != nil {
		if domain.IsValidationError(err) {
			h.renderDetail(w, r, http.StatusBadRequest, domain.GetValidationFields(err))
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Order updated.")
	http.Redirect(w, r, "/admin/orders/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}
