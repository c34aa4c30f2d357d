package routes

import (
	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Home page
	r.Get("/{$}", deps.CatalogHandler.Home)

	// Catalog browsing
	r.Get("/products", deps.CatalogHandler.Products)
	r.Get("/products/{slug}", deps.CatalogHandler.ProductDetail)
	r.Post("/products/{slug}", deps.CatalogHandler.SubmitReview)
	r.Get("/category/{slug}", deps.CatalogHandler.Category)
	r.Get("/cases", deps.CatalogHandler.Cases)
	r.Get("/cases/{slug}", deps.CatalogHandler.CaseDetail)
	r.Get("/search", deps.CatalogHandler.Search)

	// Authentication
	var authLimits []router.Middleware
	if deps.AuthRateLimit != nil {
		authLimits = append(authLimits, deps.AuthRateLimit)
	}
	r.Get("/signup", deps.SignupHandler.ShowForm)
	r.Post("/signup", deps.SignupHandler.HandleSubmit, authLimits...)
	r.Get("/login", deps.LoginHandler.ShowForm)
	r.Post("/login", deps.LoginHandler.HandleSubmit, authLimits...)
	r.Post("/logout", deps.LogoutHandler.HandleSubmit)

	// Everything below requires a logged-in shopper
	account := r.Group(middleware.RequireAuth)

	// Shopping cart
	account.Get("/cart", deps.CartHandler.View)
	account.Post("/cart/add/product/{id}", deps.CartHandler.AddProduct)
	account.Post("/cart/add/case/{id}", deps.CartHandler.AddCase)
	account.Post("/cart/remove/{item_id}", deps.CartHandler.Remove)
	account.Post("/cart/update/{item_id}", deps.CartHandler.Update)

	// Checkout
	account.Get("/checkout", deps.CheckoutHandler.Page)
	account.Post("/checkout", deps.CheckoutHandler.Submit)

	// Orders
	account.Get("/orders", deps.OrderHandler.List)
	account.Get("/orders/{id}", deps.OrderHandler.Detail)

	// Wishlist
	account.Get("/wishlist", deps.WishlistHandler.View)
	account.Get("/wishlist/toggle/{product_id}", deps.WishlistHandler.Toggle)
	account.Post("/wishlist/toggle/{product_id}", deps.WishlistHandler.Toggle)

	if deps.NotFound != nil {
		r.NotFound(deps.NotFound)
	}
}
