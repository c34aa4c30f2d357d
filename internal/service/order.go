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
	"github.com/dukerupert/route66/internal/money"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
)

const adminOrderListLimit = 200

// OrderService provides business logic for order operations
type OrderService interface {
	// ListForUser returns the user's orders, newest first.
	ListForUser(ctx context.Context, userID int64) ([]Order, error)

	// GetForUser returns one of the user's orders. Orders owned by other
	// users are reported as not found.
	GetForUser(ctx context.Context, userID, orderID int64) (*OrderDetail, error)

	// ListAll returns orders for staff, optionally filtered by status.
	ListAll(ctx context.Context, status string) ([]Order, error)

	Get(ctx context.Context, orderID int64) (*OrderDetail, error)

	// UpdateStatus sets the order status and tracking number. Customers
	// are emailed when an order ships or is delivered.
	UpdateStatus(ctx context.Context, orderID int64, status, tracking string) (*Order, error)
}

// Order is the view of an order row.
type Order struct {
	ID              int64
	UserID          int64
	Status          string
	TotalCents      int64
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	ShippingAddress string
	City            string
	State           string
	ZipCode         string
	Country         string
	Notes           string
	TrackingNumber  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ItemCount       int64
}

func (o Order) CustomerName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// OrderItem is a line of an order with the price captured at checkout.
type OrderItem struct {
	ID            int64
	Kind          string
	ProductID     int64
	CaseID        int64
	Name          string
	Quantity      int32
	PriceCents    int64
	SubtotalCents int64
}

// OrderDetail aggregates order information with items
type OrderDetail struct {
	Order Order
	Items []OrderItem
}

// ItemCount is the total number of units in the order.
func (d *OrderDetail) ItemCount() int64 {
	var n int64
	for _, item := range d.Items {
		n += int64(item.Quantity)
	}
	return n
}

type orderService struct {
	repo     repository.Querier
	notifier OrderNotifier
	shopName string
	baseURL  string
	logger   *slog.Logger
}

// NewOrderService creates a new OrderService instance
func NewOrderService(repo repository.Querier, notifier OrderNotifier, shopName, baseURL string, logger *slog.Logger) OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		repo:     repo,
		notifier: notifier,
		shopName: shopName,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *orderService) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return ordersFromRows(rows), nil
}

func (s *orderService) GetForUser(ctx context.Context, userID, orderID int64) (*OrderDetail, error) {
	order, err := s.repo.GetOrderForUser(ctx, repository.GetOrderForUserParams{
		ID:     orderID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return s.withItems(ctx, order)
}

func (s *orderService) ListAll(ctx context.Context, status string) ([]Order, error) {
	params := repository.ListOrdersParams{Limit: adminOrderListLimit}
	if domain.IsOrderStatus(status) {
		params.Status = pgtype.Text{String: status, Valid: true}
	}

	rows, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return ordersFromRows(rows), nil
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*OrderDetail, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return s.withItems(ctx, order)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status, tracking string) (*Order, error) {
	const op = "order.UpdateStatus"

	if !domain.IsOrderStatus(status) {
		return nil, domain.NewValidationError(op, "status", "Select a valid choice.")
	}
	tracking = strings.TrimSpace(tracking)
	if len(tracking) > 100 {
		return nil, domain.NewValidationError(op, "tracking_number", "Ensure this value has at most 100 characters.")
	}

	prev, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	row, err := s.repo.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:             orderID,
		Status:         status,
		TrackingNumber: tracking,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.OrderStatusSets.WithLabelValues(status).Inc()
	}

	order := orderFromRow(row)
	if prev.Status != status && (status == domain.OrderStatusShipped || status == domain.OrderStatusDelivered) {
		s.notifyStatus(ctx, order)
	}
	return &order, nil
}

func (s *orderService) notifyStatus(ctx context.Context, o Order) {
	if s.notifier == nil {
		return
	}

	data := email.OrderStatusEmail{
		ShopName:       s.shopName,
		OrderID:        o.ID,
		Email:          o.Email,
		CustomerName:   o.FirstName,
		Status:         o.Status,
		TrackingNumber: o.TrackingNumber,
	}
	if s.baseURL != "" {
		data.OrderURL = fmt.Sprintf("%s/orders/%d", s.baseURL, o.ID)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.SendOrderStatus(ctx, data); err != nil {
		s.logger.Error("failed to send order status email", "error", err, "order_id", o.ID)
		if telemetry.Business != nil {
			telemetry.Business.EmailFailed.WithLabelValues("order_status").Inc()
		}
		return
	}
	if telemetry.Business != nil {
		telemetry.Business.EmailSent.WithLabelValues("order_status").Inc()
	}
}

func (s *orderService) withItems(ctx context.Context, order repository.Order) (*OrderDetail, error) {
	items, err := s.repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	return newOrderDetail(order, items), nil
}

func newOrderDetail(order repository.Order, items []repository.OrderItem) *OrderDetail {
	detail := &OrderDetail{
		Order: orderFromRow(order),
		Items: make([]OrderItem, 0, len(items)),
	}
	for _, item := range items {
		line := OrderItem{
			ID:            item.ID,
			Kind:          domain.ItemKindProduct,
			ProductID:     item.ProductID.Int64,
			CaseID:        item.CaseID.Int64,
			Name:          item.ItemName,
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents,
			SubtotalCents: money.Multiply(item.PriceCents, item.Quantity),
		}
		if item.CaseID.Valid {
			line.Kind = domain.ItemKindCase
		}
		detail.Items = append(detail.Items, line)
	}
	detail.Order.ItemCount = detail.ItemCount()
	return detail
}

func orderFromRow(r repository.Order) Order {
	return Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Status:          r.Status,
		TotalCents:      r.TotalCents,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		ShippingAddress: r.ShippingAddress,
		City:            r.City,
		State:           r.State,
		ZipCode:         r.ZipCode,
		Country:         r.Country,
		Notes:           r.Notes,
		TrackingNumber:  r.TrackingNumber,
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}
}

func ordersFromRows(rows []repository.ListOrdersRow) []Order {
	out := make([]Order, 0, len(rows))
	for _, r := range rows {
		o := orderFromRow(r.Order)
		o.ItemCount = r.ItemCount
		out = append(out, o)
	}
	return out
}
