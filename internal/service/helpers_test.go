package service

import (
	"context"
	"testing"

	"github.com/dukerupert/route66/internal/email"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/repository/memstore"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

// fixture seeds a memstore with a shopper and a small catalog.
type fixture struct {
	store    *memstore.Store
	user     repository.User
	other    repository.User
	category repository.Category
	brand    repository.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	user, err := store.CreateUser(ctx, repository.CreateUserParams{
		Email: "asha@example.com", PasswordHash: "x", FirstName: "Asha", LastName: "Rao",
	})
	require.NoError(t, err)
	other, err := store.CreateUser(ctx, repository.CreateUserParams{
		Email: "vikram@example.com", PasswordHash: "x", FirstName: "Vikram", LastName: "Iyer",
	})
	require.NoError(t, err)
	category, err := store.CreateCategory(ctx, repository.CreateCategoryParams{
		Name: "JDM Legends", Slug: "jdm-legends", CategoryType: "diecast_164",
	})
	require.NoError(t, err)
	brand, err := store.CreateBrand(ctx, repository.CreateBrandParams{
		Name: "Hot Wheels", Slug: "hot-wheels",
	})
	require.NoError(t, err)

	return &fixture{store: store, user: user, other: other, category: category, brand: brand}
}

type productOpt func(*repository.ProductFields)

func withSale(cents int64) productOpt {
	return func(f *repository.ProductFields) {
		f.SalePriceCents = pgtype.Int8{Int64: cents, Valid: true}
	}
}

func withStock(n int32) productOpt {
	return func(f *repository.ProductFields) { f.Stock = n }
}

func inCategory(id int64) productOpt {
	return func(f *repository.ProductFields) { f.CategoryID = pgtype.Int8{Int64: id, Valid: true} }
}

func featured() productOpt {
	return func(f *repository.ProductFields) { f.IsFeatured = true }
}

func (fx *fixture) product(t *testing.T, name, slug string, priceCents int64, opts ...productOpt) repository.Product {
	t.Helper()
	fields := repository.ProductFields{
		Name:       name,
		Slug:       slug,
		PriceCents: priceCents,
		Stock:      10,
		Scale:      "1:64",
	}
	for _, opt := range opts {
		opt(&fields)
	}
	p, err := fx.store.CreateProduct(context.Background(), fields)
	require.NoError(t, err)
	return p
}

func (fx *fixture) hwCase(t *testing.T, name, slug string, priceCents int64, stock int32) repository.HotWheelsCase {
	t.Helper()
	c, err := fx.store.CreateCase(context.Background(), repository.CaseFields{
		Name:         name,
		Slug:         slug,
		Year:         2025,
		SeriesLetter: "A",
		PriceCents:   priceCents,
		CarsPerCase:  72,
		Stock:        stock,
	})
	require.NoError(t, err)
	return c
}

// mockNotifier is a function-field OrderNotifier.
type mockNotifier struct {
	SendOrderConfirmationFunc func(ctx context.Context, data email.OrderConfirmationEmail) error
	SendOrderStatusFunc       func(ctx context.Context, data email.OrderStatusEmail) error

	confirmations []email.OrderConfirmationEmail
	statuses      []email.OrderStatusEmail
}

func (m *mockNotifier) SendOrderConfirmation(ctx context.Context, data email.OrderConfirmationEmail) error {
	m.confirmations = append(m.confirmations, data)
	if m.SendOrderConfirmationFunc != nil {
		return m.SendOrderConfirmationFunc(ctx, data)
	}
	return nil
}

func (m *mockNotifier) SendOrderStatus(ctx context.Context, data email.OrderStatusEmail) error {
	m.statuses = append(m.statuses, data)
	if m.SendOrderStatusFunc != nil {
		return m.SendOrderStatusFunc(ctx, data)
	}
	return nil
}
