package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/route66/internal/email"
	"github.com/dukerupert/route66/internal/email/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func confirmation() email.OrderConfirmationEmail {
	return email.OrderConfirmationEmail{
		ShopName:     "Route66",
		OrderID:      42,
		Email:        "buyer@example.com",
		CustomerName: "Asha Rao",
		OrderDate:    time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Items: []email.OrderItem{
			{Name: "Skyline GT-R", Quantity: 2, PriceCents: 10000, TotalCents: 20000},
			{Name: "2025 Case A", Quantity: 1, PriceCents: 5000, TotalCents: 5000},
		},
		TotalCents: 25000,
		ShippingAddr: email.Address{
			Name: "Asha Rao", Line1: "12 MG Road", City: "Pune",
			State: "MH", ZipCode: "411001", Country: "India",
		},
		OrderURL: "https://route66.example/orders/42",
	}
}

func TestService_SendOrderConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)

	svc, err := email.NewService(sender, "shop@example.com", "Route66")
	require.NoError(t, err)

	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *email.Email) (string, error) {
			assert.Equal(t, []string{"buyer@example.com"}, msg.To)
			assert.Equal(t, "Route66 <shop@example.com>", msg.From)
			assert.Equal(t, "Order Confirmation - #42", msg.Subject)
			assert.Contains(t, msg.HTMLBody, "Skyline GT-R")
			assert.Contains(t, msg.HTMLBody, "$250.00")
			assert.Contains(t, msg.TextBody, "Order #42")
			assert.NotContains(t, msg.TextBody, "<td>")
			return "msg-1", nil
		})

	require.NoError(t, svc.SendOrderConfirmation(context.Background(), confirmation()))
}

func TestService_SendOrderConfirmation_SenderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)

	svc, err := email.NewService(sender, "shop@example.com", "")
	require.NoError(t, err)

	boom := errors.New("connection refused")
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("", boom)

	err = svc.SendOrderConfirmation(context.Background(), confirmation())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestService_SendOrderConfirmation_NoRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)

	svc, err := email.NewService(sender, "shop@example.com", "Route66")
	require.NoError(t, err)

	data := confirmation()
	data.Email = ""

	assert.Error(t, svc.SendOrderConfirmation(context.Background(), data))
}

func TestService_SendOrderStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)

	svc, err := email.NewService(sender, "shop@example.com", "Route66")
	require.NoError(t, err)

	var sent *email.Email
	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *email.Email) (string, error) {
			sent = msg
			return "", nil
		})

	err = svc.SendOrderStatus(context.Background(), email.OrderStatusEmail{
		ShopName:       "Route66",
		OrderID:        7,
		Email:          "buyer@example.com",
		CustomerName:   "Asha",
		Status:         "shipped",
		TrackingNumber: "EE123456789IN",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "Your order #7 is shipped", sent.Subject)
	assert.Contains(t, sent.TextBody, "EE123456789IN")
}

func TestLogSender_Send(t *testing.T) {
	id, err := email.NewLogSender(nil).Send(context.Background(), &email.Email{
		To:      []string{"buyer@example.com"},
		Subject: "hello",
	})
	require.NoError(t, err)
	assert.Empty(t, id)
}
