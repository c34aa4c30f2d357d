package routes

import (
	"net/http"

	"github.com/dukerupert/route66/internal/handler/admin"
	"github.com/dukerupert/route66/internal/handler/storefront"
	"github.com/dukerupert/route66/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Catalog browsing, product detail with reviews, cases and search
	CatalogHandler *storefront.CatalogHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Order history
	OrderHandler *storefront.OrderHistoryHandler

	// Wishlist
	WishlistHandler *storefront.WishlistHandler

	// Auth
	SignupHandler *storefront.SignupHandler
	LoginHandler  *storefront.LoginHandler
	LogoutHandler *storefront.LogoutHandler

	// AuthRateLimit wraps the signup and login POSTs. May be nil.
	AuthRateLimit router.Middleware

	// NotFound renders the 404 page for unmatched paths.
	NotFound http.HandlerFunc
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	// Dashboard
	DashboardHandler http.Handler

	// Catalog tables
	Catalog *admin.Catalog

	// Orders
	OrderHandler *admin.OrderHandler
}
