package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, fx *fixture, userID int64, slug string) *OrderDetail {
	t.Helper()
	ctx := context.Background()
	p := fx.product(t, slug, slug, 1000)
	_, err := NewCartService(fx.store).AddProduct(ctx, userID, p.ID)
	require.NoError(t, err)
	detail, err := NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(ctx, userID, validCheckoutForm())
	require.NoError(t, err)
	return detail
}

func TestOrderService_ListAndGetForUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	first := placeOrder(t, fx, fx.user.ID, "first")
	second := placeOrder(t, fx, fx.user.ID, "second")
	placeOrder(t, fx, fx.other.ID, "someone-else")

	svc := NewOrderService(fx.store, nil, "Route66", "", nil)

	orders, err := svc.ListForUser(ctx, fx.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.Order.ID, orders[0].ID, "newest first")
	assert.Equal(t, first.Order.ID, orders[1].ID)
	assert.Equal(t, int64(1), orders[0].ItemCount)

	detail, err := svc.GetForUser(ctx, fx.user.ID, first.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", detail.Order.CustomerName())
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "first", detail.Items[0].Name)

	_, err = svc.GetForUser(ctx, fx.other.ID, first.Order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListAll(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	a := placeOrder(t, fx, fx.user.ID, "a")
	placeOrder(t, fx, fx.other.ID, "b")

	svc := NewOrderService(fx.store, nil, "Route66", "", nil)
	_, err := svc.UpdateStatus(ctx, a.Order.ID, domain.OrderStatusConfirmed, "")
	require.NoError(t, err)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	confirmed, err := svc.ListAll(ctx, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, a.Order.ID, confirmed[0].ID)

	unknown, err := svc.ListAll(ctx, "bogus")
	require.NoError(t, err)
	assert.Len(t, unknown, 2, "unknown status filter is ignored")
}

func TestOrderService_UpdateStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	placed := placeOrder(t, fx, fx.user.ID, "skyline")

	notifier := &mockNotifier{}
	svc := NewOrderService(fx.store, notifier, "Route66", "https://shop.example", nil)

	tests := []struct {
		name       string
		status     string
		tracking   string
		wantField  string
		wantEmails int
	}{
		{name: "invalid status", status: "lost", wantField: "status"},
		{name: "confirmed does not email", status: domain.OrderStatusConfirmed},
		{name: "shipped emails customer", status: domain.OrderStatusShipped, tracking: " EE123456789IN ", wantEmails: 1},
		{name: "unchanged status does not email again", status: domain.OrderStatusShipped, tracking: "EE123456789IN", wantEmails: 1},
		{name: "delivered emails customer", status: domain.OrderStatusDelivered, tracking: "EE123456789IN", wantEmails: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := svc.UpdateStatus(ctx, placed.Order.ID, tt.status, tt.tracking)
			if tt.wantField != "" {
				require.Error(t, err)
				assert.Contains(t, domain.GetValidationFields(err), tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, order.Status)
			assert.Len(t, notifier.statuses, tt.wantEmails)
		})
	}

	require.Len(t, notifier.statuses, 2)
	shipped := notifier.statuses[0]
	assert.Equal(t, "EE123456789IN", shipped.TrackingNumber)
	assert.Equal(t, "asha@example.com", shipped.Email)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	fx := newFixture(t)

	_, err := NewOrderService(fx.store, nil, "", "", nil).UpdateStatus(context.Background(), 404, domain.OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_EmailFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	placed := placeOrder(t, fx, fx.user.ID, "skyline")

	notifier := &mockNotifier{
		SendOrderStatusFunc: func(context.Context, email.OrderStatusEmail) error {
			return errors.New("smtp down")
		},
	}
	order, err := NewOrderService(fx.store, notifier, "Route66", "", nil).
		UpdateStatus(context.Background(), placed.Order.ID, domain.OrderStatusShipped, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
}
