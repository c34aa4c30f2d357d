package service

import (
	"context"
	"testing"

	"github.com/dukerupert/route66/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestCatalogService_Home(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500, featured())
	fx.product(t, "Sold Out Supra", "sold-out-supra", 2500, featured(), withStock(0))
	fx.product(t, "Plain Civic", "plain-civic", 900)
	fx.hwCase(t, "2025 Case A", "2025-case-a", 15000, 3)

	home, err := NewCatalogService(fx.store).Home(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Skyline GT-R"}, names(home.Featured))
	assert.Empty(t, home.NewArrivals)
	assert.Empty(t, home.FeaturedCases, "case is not featured")
	assert.Len(t, home.Categories, 1)
}

func TestCatalogService_ListProducts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500, inCategory(fx.category.ID))
	fx.product(t, "Mustang Boss", "mustang-boss", 1200)
	fx.product(t, "Empty Shelf", "empty-shelf", 500, withStock(0))

	tests := []struct {
		name   string
		filter ProductFilter
		want   []string
	}{
		{
			name:   "default hides out of stock, newest first",
			filter: ProductFilter{},
			want:   []string{"Mustang Boss", "Skyline GT-R"},
		},
		{
			name:   "query is case insensitive",
			filter: ProductFilter{Query: "  skyLINE "},
			want:   []string{"Skyline GT-R"},
		},
		{
			name:   "category slug",
			filter: ProductFilter{CategorySlug: "jdm-legends"},
			want:   []string{"Skyline GT-R"},
		},
		{
			name:   "min price",
			filter: ProductFilter{MinPrice: "15.00"},
			want:   []string{"Skyline GT-R"},
		},
		{
			name:   "unparseable min price is ignored",
			filter: ProductFilter{MinPrice: "cheap"},
			want:   []string{"Mustang Boss", "Skyline GT-R"},
		},
		{
			name:   "price ascending",
			filter: ProductFilter{Sort: repository.SortPriceAsc},
			want:   []string{"Mustang Boss", "Skyline GT-R"},
		},
		{
			name:   "price descending",
			filter: ProductFilter{Sort: repository.SortPriceDesc},
			want:   []string{"Skyline GT-R", "Mustang Boss"},
		},
	}

	svc := NewCatalogService(fx.store)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing, err := svc.ListProducts(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(listing.Products))
			assert.Len(t, listing.Brands, 1)
		})
	}
}

func TestCatalogService_ListProducts_UnknownSortFallsBack(t *testing.T) {
	fx := newFixture(t)

	listing, err := NewCatalogService(fx.store).ListProducts(context.Background(), ProductFilter{Sort: "drop table"})
	require.NoError(t, err)
	assert.Equal(t, repository.SortNewest, listing.Filter.Sort)
}

func TestCatalogService_GetProductDetail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	skyline := fx.product(t, "Skyline GT-R", "skyline-gt-r", 2000, inCategory(fx.category.ID), withSale(1500))
	fx.product(t, "Silvia S15", "silvia-s15", 1000, inCategory(fx.category.ID))
	fx.product(t, "RX-7 Sold Out", "rx-7", 1000, inCategory(fx.category.ID), withStock(0))
	fx.product(t, "Mustang Boss", "mustang-boss", 1200)

	_, err := fx.store.CreateReview(ctx, repository.CreateReviewParams{
		ProductID: skyline.ID, UserID: fx.other.ID, Rating: 4, Title: "Nice", Body: "Good casting",
	})
	require.NoError(t, err)
	_, err = fx.store.CreateReview(ctx, repository.CreateReviewParams{
		ProductID: skyline.ID, UserID: fx.other.ID, Rating: 5, Title: "Great", Body: "Real riders",
	})
	require.NoError(t, err)

	_, _, err = NewWishlistService(fx.store).Toggle(ctx, fx.user.ID, skyline.ID)
	require.NoError(t, err)

	detail, err := NewCatalogService(fx.store).GetProductDetail(ctx, "skyline-gt-r", fx.user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), detail.Product.DisplayPriceCents)
	assert.Equal(t, 25, detail.Product.DiscountPercent)
	assert.True(t, detail.Product.OnSale())
	assert.Equal(t, []string{"Silvia S15"}, names(detail.Related))
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Diecast 1:64", detail.Category.TypeLabel)
	assert.Nil(t, detail.Brand)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.InDelta(t, 4.5, detail.AverageRating, 0.001)
	require.Len(t, detail.Reviews, 2)
	assert.Equal(t, "Great", detail.Reviews[0].Title, "newest first")
	assert.Equal(t, "Vikram I.", detail.Reviews[0].Author)
	assert.True(t, detail.InWishlist)

	anon, err := NewCatalogService(fx.store).GetProductDetail(ctx, "skyline-gt-r", 0)
	require.NoError(t, err)
	assert.False(t, anon.InWishlist)
}

func TestCatalogService_GetProductDetail_NoCategoryHasNoRelated(t *testing.T) {
	fx := newFixture(t)
	fx.product(t, "Loner", "loner", 1000)
	fx.product(t, "Other", "other", 1000)

	detail, err := NewCatalogService(fx.store).GetProductDetail(context.Background(), "loner", 0)
	require.NoError(t, err)
	assert.Empty(t, detail.Related)
}

func TestCatalogService_NotFound(t *testing.T) {
	fx := newFixture(t)
	svc := NewCatalogService(fx.store)
	ctx := context.Background()

	_, err := svc.GetProductDetail(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetCategoryDetail(ctx, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.GetCase(ctx, "missing")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(fx.store)

	fx.product(t, "Skyline GT-R", "skyline-gt-r", 2500, withStock(0))
	fx.hwCase(t, "Skyline Collector Case", "skyline-case", 9000, 1)

	results, err := svc.Search(ctx, "skyline")
	require.NoError(t, err)
	assert.Equal(t, []string{"Skyline GT-R"}, names(results.Products), "search includes out of stock")
	require.Len(t, results.Cases, 1)

	empty, err := svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, empty.Products)
	assert.Empty(t, empty.Cases)
}

func TestReviewerName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Asha", "Rao", "Asha R."},
		{"Asha", "", "Asha"},
		{"", "", "Anonymous"},
	}
	for _, tt := range tests {
		if got := reviewerName(tt.first, tt.last); got != tt.want {
			t.Errorf("reviewerName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
