package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/email"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckoutForm() CheckoutForm {
	return CheckoutForm{
		FirstName:       "Asha",
		LastName:        "Rao",
		Email:           "asha@example.com",
		Phone:           "+91 98765 43210",
		ShippingAddress: "12 MG Road",
		City:            "Pune",
		State:           "Maharashtra",
		ZipCode:         "411001",
		Country:         "India",
		Notes:           "Leave with the guard",
	}
}

func TestCheckoutService_NewForm(t *testing.T) {
	svc := NewCheckoutService(nil, nil, "Route66", "", nil)

	f := svc.NewForm(&domain.User{Email: "asha@example.com", FirstName: "Asha", LastName: "Rao"})
	assert.Equal(t, "Asha", f.FirstName)
	assert.Equal(t, "asha@example.com", f.Email)
	assert.Equal(t, DefaultCountry, f.Country)

	assert.Equal(t, CheckoutForm{Country: DefaultCountry}, svc.NewForm(nil))
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	product := fx.product(t, "Skyline GT-R", "skyline-gt-r", 100, withStock(5))
	hwCase := fx.hwCase(t, "2025 Case A", "2025-case-a", 50, 3)

	cart := NewCartService(fx.store)
	for _, add := range []func() (*CartLine, error){
		func() (*CartLine, error) { return cart.AddProduct(ctx, fx.user.ID, product.ID) },
		func() (*CartLine, error) { return cart.AddProduct(ctx, fx.user.ID, product.ID) },
		func() (*CartLine, error) { return cart.AddCase(ctx, fx.user.ID, hwCase.ID) },
	} {
		_, err := add()
		require.NoError(t, err)
	}

	notifier := &mockNotifier{}
	svc := NewCheckoutService(fx.store, notifier, "Route66", "https://shop.example/", nil)

	detail, err := svc.PlaceOrder(ctx, fx.user.ID, validCheckoutForm())
	require.NoError(t, err)

	assert.Equal(t, int64(250), detail.Order.TotalCents)
	assert.Equal(t, domain.OrderStatusPending, detail.Order.Status)
	assert.Equal(t, "Leave with the guard", detail.Order.Notes)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, int64(100), detail.Items[0].PriceCents)
	assert.Equal(t, int32(2), detail.Items[0].Quantity)
	assert.Equal(t, int64(50), detail.Items[1].PriceCents)
	assert.Equal(t, "case", detail.Items[1].Kind)
	assert.Equal(t, int64(3), detail.ItemCount())

	n, err := cart.CountUnits(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "cart is emptied")
	assert.Equal(t, 1, fx.store.CartCount(fx.user.ID), "cart row persists")

	p, err := fx.store.GetProductByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(3), p.Stock)
	c, err := fx.store.GetCaseByID(ctx, hwCase.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), c.Stock)

	require.Len(t, notifier.confirmations, 1)
	sent := notifier.confirmations[0]
	assert.Equal(t, "asha@example.com", sent.Email)
	assert.Equal(t, int64(250), sent.TotalCents)
	assert.Equal(t, fmt.Sprintf("https://shop.example/orders/%d", detail.Order.ID), sent.OrderURL)
	assert.Len(t, sent.Items, 2)
}

func TestCheckoutService_PlaceOrder_SalePriceSnapshot(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	product := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2000, withSale(1500))

	_, err := NewCartService(fx.store).AddProduct(ctx, fx.user.ID, product.ID)
	require.NoError(t, err)

	detail, err := NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(ctx, fx.user.ID, validCheckoutForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), detail.Items[0].PriceCents)

	fields := repository.ProductFields{
		Name: product.Name, Slug: product.Slug, PriceCents: 9900, Stock: 10, Scale: product.Scale,
	}
	_, err = fx.store.UpdateProduct(ctx, repository.UpdateProductParams{ID: product.ID, ProductFields: fields})
	require.NoError(t, err)

	reloaded, err := NewOrderService(fx.store, nil, "", "", nil).GetForUser(ctx, fx.user.ID, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), reloaded.Items[0].PriceCents)
	assert.Equal(t, int64(1500), reloaded.Order.TotalCents)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	fx := newFixture(t)

	_, err := NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(context.Background(), fx.user.ID, validCheckoutForm())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, fx.store.OrderCount())
	assert.Zero(t, fx.store.Transactions())
}

func TestCheckoutService_PlaceOrder_InvalidForm(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	product := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	_, err := NewCartService(fx.store).AddProduct(ctx, fx.user.ID, product.ID)
	require.NoError(t, err)

	f := validCheckoutForm()
	f.Email = "not-an-email"
	f.ZipCode = "   "
	f.FirstName = strings.Repeat("a", 51)

	_, err = NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(ctx, fx.user.ID, f)
	require.Error(t, err)

	fields := domain.GetValidationFields(err)
	assert.Equal(t, "Enter a valid email address.", fields["email"])
	assert.Equal(t, "This field is required.", fields["zip_code"])
	assert.Contains(t, fields, "first_name")
	assert.Zero(t, fx.store.OrderCount())

	n, err := NewCartService(fx.store).CountUnits(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "cart left intact")
}

func TestCheckoutService_PlaceOrder_OversoldCartStillOrders(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	plenty := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500, withStock(5))
	scarce := fx.product(t, "Last Supra", "last-supra", 3000, withStock(1))
	box := fx.hwCase(t, "2025 Case A", "2025-case-a", 12000, 0)

	cart := NewCartService(fx.store)
	_, err := cart.AddProduct(ctx, fx.user.ID, plenty.ID)
	require.NoError(t, err)
	line, err := cart.AddProduct(ctx, fx.user.ID, scarce.ID)
	require.NoError(t, err)
	require.NoError(t, cart.SetQuantity(ctx, fx.user.ID, line.ItemID, 2))
	_, err = cart.AddCase(ctx, fx.user.ID, box.ID)
	require.NoError(t, err)

	detail, err := NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(ctx, fx.user.ID, validCheckoutForm())
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Len(t, detail.Items, 3)
	assert.Equal(t, int64(2500+2*3000+12000), detail.Order.TotalCents)
	assert.Equal(t, 1, fx.store.OrderCount())

	p, err := fx.store.GetProductByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.Stock)
	p, err = fx.store.GetProductByID(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(0), p.Stock, "stock floors at zero")
	c, err := fx.store.GetCaseByID(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(0), c.Stock)

	n, err := cart.CountUnits(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckoutService_PlaceOrder_PersistenceFailureRollsBack(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	product := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	_, err := NewCartService(fx.store).AddProduct(ctx, fx.user.ID, product.ID)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	fx.store.FailOn("ClearCart", boom)

	_, err = NewCheckoutService(fx.store, nil, "Route66", "", nil).PlaceOrder(ctx, fx.user.ID, validCheckoutForm())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, fx.store.OrderCount())
	assert.Zero(t, fx.store.Transactions())
}

func TestCheckoutService_PlaceOrder_EmailFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	product := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500)
	_, err := NewCartService(fx.store).AddProduct(ctx, fx.user.ID, product.ID)
	require.NoError(t, err)

	notifier := &mockNotifier{
		SendOrderConfirmationFunc: func(context.Context, email.OrderConfirmationEmail) error {
			return errors.New("smtp down")
		},
	}

	detail, err := NewCheckoutService(fx.store, notifier, "Route66", "", nil).PlaceOrder(ctx, fx.user.ID, validCheckoutForm())
	require.NoError(t, err)
	assert.Equal(t, int64(2500), detail.Order.TotalCents)
	assert.Len(t, notifier.confirmations, 1)
	assert.Equal(t, 1, fx.store.OrderCount())
}
