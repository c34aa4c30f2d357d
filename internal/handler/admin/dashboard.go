package admin

import (
	"net/http"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

const (
	dashboardRecentOrders = 10
	lowStockThreshold     = 3
)

// DashboardHandler shows recent orders and products running out.
type DashboardHandler struct {
	orderService   service.OrderService
	catalogService service.AdminCatalogService
	renderer       *handler.Renderer
}

func NewDashboardHandler(orderService service.OrderService, catalogService service.AdminCatalogService, renderer *handler.Renderer) *DashboardHandler {
	return &DashboardHandler{
		orderService:   orderService,
		catalogService: catalogService,
		renderer:       renderer,
	}
}

// ServeHTTP handles GET /admin
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orderService.ListAll(ctx, "")
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	products, err := h.catalogService.ListProducts(ctx, "")
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	pending := 0
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			pending++
		}
	}
	var lowStock []service.Product
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			lowStock = append(lowStock, p)
		}
	}
	recent := orders
	if len(recent) > dashboardRecentOrders {
		recent = recent[:dashboardRecentOrders]
	}

	h.renderer.Page(w, r, "admin/dashboard", handler.Data{
		"Title":         "Dashboard",
		"RecentOrders":  recent,
		"PendingCount":  pending,
		"ProductCount":  len(products),
		"LowStock":      lowStock,
		"LowStockLimit": lowStockThreshold,
	})
}
