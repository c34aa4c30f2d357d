package routes

import (
	"net/http"

	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/router"
)

// crud is the route set every catalog table shares.
type crud interface {
	Index(http.ResponseWriter, *http.Request)
	New(http.ResponseWriter, *http.Request)
	CreateSubmit(http.ResponseWriter, *http.Request)
	Edit(http.ResponseWriter, *http.Request)
	UpdateSubmit(http.ResponseWriter, *http.Request)
	DeleteSubmit(http.ResponseWriter, *http.Request)
}

// RegisterAdminRoutes registers all admin dashboard routes.
// All routes are protected by staff authentication middleware.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireStaff)

	// Dashboard
	admin.Get("/admin", deps.DashboardHandler.ServeHTTP)

	// Catalog management
	registerCRUD(admin, "/admin/categories", deps.Catalog.Categories)
	registerCRUD(admin, "/admin/brands", deps.Catalog.Brands)
	registerCRUD(admin, "/admin/products", deps.Catalog.Products)
	registerCRUD(admin, "/admin/cases", deps.Catalog.Cases)

	// Order management
	admin.Get("/admin/orders", deps.OrderHandler.List)
	admin.Get("/admin/orders/{id}", deps.OrderHandler.Detail)
	admin.Post("/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
}

func registerCRUD(r *router.Router, base string, h crud) {
	r.Get(base, h.Index)
	r.Get(base+"/new", h.New)
	r.Post(base+"/new", h.CreateSubmit)
	r.Get(base+"/{id}/edit", h.Edit)
	r.Post(base+"/{id}/edit", h.UpdateSubmit)
	r.Post(base+"/{id}/delete", h.DeleteSubmit)
}
