package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/email"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
)

// DefaultCountry pre-fills the checkout form.
const DefaultCountry = "India"

const notifyTimeout = 15 * time.Second

// OrderNotifier sends customer emails about orders. *email.Service
// satisfies it.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error
	SendOrderStatus(ctx context.Context, data email.OrderStatusEmail) error
}

// CheckoutForm holds the contact and shipping fields submitted at
// checkout.
type CheckoutForm struct {
	FirstName       string `form:"first_name" validate:"required,max=50"`
	LastName        string `form:"last_name" validate:"required,max=50"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone" validate:"required,max=20"`
	ShippingAddress string `form:"shipping_address" validate:"required"`
	City            string `form:"city" validate:"required,max=100"`
	State           string `form:"state" validate:"required,max=100"`
	ZipCode         string `form:"zip_code" validate:"required,max=20"`
	Country         string `form:"country" validate:"required,max=100"`
	Notes           string `form:"notes"`
}

func (f *CheckoutForm) normalize() {
	for _, p := range []*string{
		&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.ShippingAddress,
		&f.City, &f.State, &f.ZipCode, &f.Country, &f.Notes,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// CheckoutService turns a user's cart into an order
type CheckoutService interface {
	// NewForm returns a checkout form pre-filled from the user's account.
	NewForm(user *domain.User) CheckoutForm
	PlaceOrder(ctx context.Context, userID int64, f CheckoutForm) (*OrderDetail, error)
}

type checkoutService struct {
	store    repository.Store
	notifier OrderNotifier
	shopName string
	baseURL  string
	logger   *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance. notifier may
// be nil, in which case no confirmation email is sent.
func NewCheckoutService(store repository.Store, notifier OrderNotifier, shopName, baseURL string, logger *slog.Logger) CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &checkoutService{
		store:    store,
		notifier: notifier,
		shopName: shopName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *checkoutService) NewForm(user *domain.User) CheckoutForm {
	f := CheckoutForm{Country: DefaultCountry}
	if user != nil {
		f.FirstName = user.FirstName
		f.LastName = user.LastName
		f.Email = user.Email
	}
	return f
}

// PlaceOrder validates the form and then, in one transaction, creates the
// order from the locked cart, decrements stock and empties the cart.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID int64, f CheckoutForm) (*OrderDetail, error) {
	const op = "checkout.PlaceOrder"

	cart, err := s.store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	units, err := s.store.CountCartUnits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cart items: %w", err)
	}
	if units == 0 {
		s.failed("empty_cart")
		return nil, ErrEmptyCart
	}

	f.normalize()
	if err := form.Validate(op, f); err != nil {
		s.failed("invalid_form")
		return nil, err
	}

	var detail *OrderDetail
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		var err error
		detail, err = createOrder(ctx, q, cart.ID, userID, f)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			s.failed("empty_cart")
		default:
			s.failed("internal")
		}
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.OrdersCreated.Inc()
		telemetry.Business.OrderValue.Observe(float64(detail.Order.TotalCents) / 100)
		telemetry.Business.OrderItemCount.Observe(float64(detail.ItemCount()))
	}

	s.sendConfirmation(ctx, detail)

	return detail, nil
}

func createOrder(ctx context.Context, q repository.Querier, cartID, userID int64, f CheckoutForm) (*OrderDetail, error) {
	if _, err := q.LockCart(ctx, cartID); err != nil {
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	rows, err := q.GetCartItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := q.CreateOrder(ctx, repository.CreateOrderParams{
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Phone:           f.Phone,
		ShippingAddress: f.ShippingAddress,
		City:            f.City,
		State:           f.State,
		ZipCode:         f.ZipCode,
		Country:         f.Country,
		Notes:           f.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]repository.OrderItem, 0, len(rows))
	for _, row := range rows {
		if err := decrementStock(ctx, q, row); err != nil {
			return nil, err
		}

		item, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
			OrderID:    order.ID,
			ProductID:  row.ProductID,
			CaseID:     row.CaseID,
			ItemName:   row.ItemName,
			Quantity:   row.Quantity,
			PriceCents: unitPrice(row),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		items = append(items, item)
	}

	total, err := q.UpdateOrderTotal(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}
	order.TotalCents = total

	if err := q.ClearCart(ctx, cartID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return newOrderDetail(order, items), nil
}

// decrementStock never blocks an order: stock bottoms out at zero.
func decrementStock(ctx context.Context, q repository.Querier, row repository.GetCartItemsRow) error {
	params := repository.DecrementStockParams{Quantity: row.Quantity}

	var err error
	if row.CaseID.Valid {
		params.ID = row.CaseID.Int64
		_, err = q.DecrementCaseStock(ctx, params)
	} else {
		params.ID = row.ProductID.Int64
		_, err = q.DecrementProductStock(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	return nil
}

func (s *checkoutService) sendConfirmation(ctx context.Context, detail *OrderDetail) {
	if s.notifier == nil {
		return
	}

	o := detail.Order
	data := email.OrderConfirmationEmail{
		ShopName:     s.shopName,
		OrderID:      o.ID,
		Email:        o.Email,
		CustomerName: strings.TrimSpace(o.FirstName + " " + o.LastName),
		OrderDate:    o.CreatedAt,
		TotalCents:   o.TotalCents,
		ShippingAddr: email.Address{
			Name:    strings.TrimSpace(o.FirstName + " " + o.LastName),
			Line1:   o.ShippingAddress,
			City:    o.City,
			State:   o.State,
			ZipCode: o.ZipCode,
			Country: o.Country,
			Phone:   o.Phone,
		},
	}
	if s.baseURL != "" {
		data.OrderURL = fmt.Sprintf("%s/orders/%d", s.baseURL, o.ID)
	}
	for _, item := range detail.Items {
		data.Items = append(data.Items, email.OrderItem{
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
			TotalCents: item.SubtotalCents,
		})
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.SendOrderConfirmation(ctx, data); err != nil {
		s.logger.Error("failed to send order confirmation", "error", err, "order_id", o.ID)
		if telemetry.Business != nil {
			telemetry.Business.EmailFailed.WithLabelValues("order_confirmation").Inc()
		}
		return
	}
	if telemetry.Business != nil {
		telemetry.Business.EmailSent.WithLabelValues("order_confirmation").Inc()
	}
}

func (s *checkoutService) failed(reason string) {
	if telemetry.Business != nil {
		telemetry.Business.CheckoutFailed.WithLabelValues(reason).Inc()
	}
}
