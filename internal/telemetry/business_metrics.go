package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics counts storefront events: cart activity, orders,
// reviews, wishlist toggles and accounts.
type BusinessMetrics struct {
	// Catalog
	ProductViews *prometheus.CounterVec
	Searches     *prometheus.CounterVec

	// Cart
	CartItemsAdded   *prometheus.CounterVec
	CartItemsRemoved prometheus.Counter

	// Checkout and orders
	CheckoutFailed  *prometheus.CounterVec
	OrdersCreated   prometheus.Counter
	OrderValue      prometheus.Histogram
	OrderItemCount  prometheus.Histogram
	OrderStatusSets *prometheus.CounterVec

	// Engagement
	ReviewsSubmitted *prometheus.CounterVec
	WishlistToggles  *prometheus.CounterVec

	// Accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed prometheus.Counter

	// Email delivery
	EmailSent   *prometheus.CounterVec
	EmailFailed *prometheus.CounterVec
}

// NewBusinessMetrics registers the business metrics on reg.
func NewBusinessMetrics(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "route66"
	}
	const subsystem = "business"
	factory := promauto.With(reg)

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &BusinessMetrics{
		ProductViews:     counterVec("product_views_total", "Product and case detail page views", "kind"),
		Searches:         counterVec("searches_total", "Catalog searches and filtered listings", "source"),
		CartItemsAdded:   counterVec("cart_items_added_total", "Add to cart actions", "kind"),
		CartItemsRemoved: counter("cart_items_removed_total", "Cart lines removed directly or by zero quantity"),
		CheckoutFailed:   counterVec("checkout_failed_total", "Checkout attempts that did not create an order", "reason"),
		OrdersCreated:    counter("orders_created_total", "Orders placed"),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value_cents",
			Help:      "Order totals in cents",
			Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Units per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 25, 72},
		}),
		OrderStatusSets:  counterVec("order_status_changes_total", "Order status updates by staff", "status"),
		ReviewsSubmitted: counterVec("reviews_submitted_total", "Reviews by star rating", "rating"),
		WishlistToggles:  counterVec("wishlist_toggles_total", "Wishlist toggles by direction", "action"),
		Signups:          counter("signups_total", "Accounts created"),
		Logins:           counter("logins_total", "Successful logins"),
		LoginFailed:      counter("login_failures_total", "Failed login attempts"),
		EmailSent:        counterVec("emails_sent_total", "Emails delivered", "type"),
		EmailFailed:      counterVec("emails_failed_total", "Emails that failed to send", "type"),
	}
}

// Business is the process-wide instance. It stays nil until
// InitBusinessMetrics runs, so callers check before use.
var Business *BusinessMetrics

// InitBusinessMetrics registers metrics on the default registry and sets Business.
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(prometheus.DefaultRegisterer, namespace)
	return Business
}
