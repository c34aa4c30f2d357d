package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/money"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
)

// Home page section sizes.
const (
	homeFeaturedLimit      = 8
	homeNewArrivalsLimit   = 8
	homeTreasureHuntsLimit = 4
	homeFeaturedCasesLimit = 3
	relatedProductsLimit   = 4
)

// CatalogService provides read access to products, cases, categories and
// brands for the storefront.
type CatalogService interface {
	Home(ctx context.Context) (*Home, error)
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductListing, error)
	GetProductDetail(ctx context.Context, slug string, viewerID int64) (*ProductDetail, error)
	GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error)
	ListCases(ctx context.Context) ([]Case, error)
	GetCase(ctx context.Context, slug string) (*Case, error)
	Search(ctx context.Context, query string) (*SearchResults, error)
}

// Product is the storefront view of a product row.
type Product struct {
	ID                  int64
	Name                string
	Slug                string
	BrandID             int64
	CategoryID          int64
	Description         string
	PriceCents          int64
	SalePriceCents      *int64
	DisplayPriceCents   int64
	DiscountPercent     int
	Stock               int32
	ImageURL            string
	Scale               string
	CarModel            string
	CarYear             int32
	Color               string
	Series              string
	IsTreasureHunt      bool
	IsSuperTreasureHunt bool
	IsFeatured          bool
	IsNewArrival        bool
	CreatedAt           time.Time
}

func (p Product) InStock() bool { return p.Stock > 0 }

// OnSale reports whether the display price comes from a sale price.
func (p Product) OnSale() bool { return p.DisplayPriceCents != p.PriceCents }

// Case is the storefront view of a Hot Wheels case.
type Case struct {
	ID           int64
	Name         string
	Slug         string
	Year         int32
	SeriesLetter string
	PriceCents   int64
	CarsPerCase  int32
	Description  string
	ImageURL     string
	Stock        int32
	IsFeatured   bool
	CreatedAt    time.Time
}

func (c Case) InStock() bool { return c.Stock > 0 }

type Category struct {
	ID           int64
	Name         string
	Slug         string
	CategoryType string
	TypeLabel    string
	Description  string
	ImageURL     string
}

type Brand struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	LogoURL     string
}

type Review struct {
	ID        int64
	Rating    int
	Title     string
	Body      string
	Author    string
	CreatedAt time.Time
}

type Home struct {
	Featured      []Product
	NewArrivals   []Product
	TreasureHunts []Product
	FeaturedCases []Case
	Categories    []Category
}

// ProductFilter carries the raw product list query. Values that do not
// parse are ignored rather than rejected.
type ProductFilter struct {
	Query        string
	CategorySlug string
	BrandID      int64
	Scale        string
	TreasureHunt bool
	MinPrice     string
	MaxPrice     string
	Sort         string
}

type ProductListing struct {
	Products   []Product
	Categories []Category
	Brands     []Brand
	Filter     ProductFilter
}

type ProductDetail struct {
	Product       Product
	Brand         *Brand
	Category      *Category
	Reviews       []Review
	AverageRating float64
	ReviewCount   int64
	Related       []Product
	InWishlist    bool
}

type CategoryDetail struct {
	Category Category
	Products []Product
}

type SearchResults struct {
	Query    string
	Products []Product
	Cases    []Case
}

type catalogService struct {
	repo repository.Querier
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(repo repository.Querier) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Home(ctx context.Context) (*Home, error) {
	featured, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		InStockOnly:  true,
		FeaturedOnly: true,
		Limit:        limit(homeFeaturedLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	arrivals, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		InStockOnly:    true,
		NewArrivalOnly: true,
		Limit:          limit(homeNewArrivalsLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list new arrivals: %w", err)
	}

	hunts, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		InStockOnly:      true,
		TreasureHuntOnly: true,
		Limit:            limit(homeTreasureHuntsLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list treasure hunts: %w", err)
	}

	cases, err := s.repo.ListCases(ctx, repository.ListCasesParams{
		InStockOnly:  true,
		FeaturedOnly: true,
		Limit:        limit(homeFeaturedCasesLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list featured cases: %w", err)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &Home{
		Featured:      productsFromRows(featured),
		NewArrivals:   productsFromRows(arrivals),
		TreasureHunts: productsFromRows(hunts),
		FeaturedCases: casesFromRows(cases),
		Categories:    categoriesFromRows(categories),
	}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter ProductFilter) (*ProductListing, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if !validSort(filter.Sort) {
		filter.Sort = repository.SortNewest
	}

	params := repository.ListProductsParams{
		InStockOnly:      true,
		Query:            text(filter.Query),
		CategorySlug:     text(filter.CategorySlug),
		Scale:            text(filter.Scale),
		TreasureHuntOnly: filter.TreasureHunt,
		SortBy:           filter.Sort,
	}
	if filter.BrandID > 0 {
		params.BrandID = pgtype.Int8{Int64: filter.BrandID, Valid: true}
	}
	if cents, err := money.ParseCents(filter.MinPrice); err == nil {
		params.MinPriceCents = pgtype.Int8{Int64: cents, Valid: true}
	}
	if cents, err := money.ParseCents(filter.MaxPrice); err == nil {
		params.MaxPriceCents = pgtype.Int8{Int64: cents, Valid: true}
	}

	rows, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	if telemetry.Business != nil && filter != (ProductFilter{Sort: filter.Sort}) {
		telemetry.Business.Searches.WithLabelValues("product_list").Inc()
	}

	return &ProductListing{
		Products:   productsFromRows(rows),
		Categories: categoriesFromRows(categories),
		Brands:     brandsFromRows(brands),
		Filter:     filter,
	}, nil
}

func (s *catalogService) GetProductDetail(ctx context.Context, slug string, viewerID int64) (*ProductDetail, error) {
	row, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	detail := &ProductDetail{Product: productFromRow(row)}

	if row.BrandID.Valid {
		b, err := s.repo.GetBrandByID(ctx, row.BrandID.Int64)
		if err != nil && !errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("failed to get brand: %w", err)
		}
		if err == nil {
			brand := brandFromRow(b)
			detail.Brand = &brand
		}
	}

	if row.CategoryID.Valid {
		c, err := s.repo.GetCategoryByID(ctx, row.CategoryID.Int64)
		if err != nil && !errors.Is(err, repository.ErrNoRows) {
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		if err == nil {
			category := categoryFromRow(c)
			detail.Category = &category
		}

		related, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
			InStockOnly: true,
			CategoryID:  row.CategoryID,
			ExcludeID:   pgtype.Int8{Int64: row.ID, Valid: true},
			Limit:       limit(relatedProductsLimit),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list related products: %w", err)
		}
		detail.Related = productsFromRows(related)
	}

	reviews, err := s.repo.ListReviewsByProduct(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	detail.Reviews = make([]Review, 0, len(reviews))
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, Review{
			ID:        r.ID,
			Rating:    int(r.Rating),
			Title:     r.Title,
			Body:      r.Body,
			Author:    reviewerName(r.FirstName, r.LastName),
			CreatedAt: r.CreatedAt.Time,
		})
	}

	rating, err := s.repo.GetProductRating(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product rating: %w", err)
	}
	detail.AverageRating = rating.AverageRating
	detail.ReviewCount = rating.ReviewCount

	if viewerID > 0 {
		in, err := s.repo.WishlistHasProduct(ctx, repository.WishlistHasProductParams{
			UserID:    viewerID,
			ProductID: row.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check wishlist: %w", err)
		}
		detail.InWishlist = in
	}

	if telemetry.Business != nil {
		telemetry.Business.ProductViews.WithLabelValues(domain.ItemKindProduct).Inc()
	}

	return detail, nil
}

func (s *catalogService) GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error) {
	c, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	rows, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		InStockOnly: true,
		CategoryID:  pgtype.Int8{Int64: c.ID, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list category products: %w", err)
	}

	return &CategoryDetail{
		Category: categoryFromRow(c),
		Products: productsFromRows(rows),
	}, nil
}

func (s *catalogService) ListCases(ctx context.Context) ([]Case, error) {
	rows, err := s.repo.ListCases(ctx, repository.ListCasesParams{InStockOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return casesFromRows(rows), nil
}

func (s *catalogService) GetCase(ctx context.Context, slug string) (*Case, error) {
	row, err := s.repo.GetCaseBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.ProductViews.WithLabelValues(domain.ItemKindCase).Inc()
	}

	c := caseFromRow(row)
	return &c, nil
}

// Search matches products on name, model or description and cases on
// name. Out of stock items are included. A blank query matches nothing.
func (s *catalogService) Search(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	results := &SearchResults{Query: query, Products: []Product{}, Cases: []Case{}}
	if query == "" {
		return results, nil
	}

	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	cases, err := s.repo.ListCases(ctx, repository.ListCasesParams{Query: text(query)})
	if err != nil {
		return nil, fmt.Errorf("failed to search cases: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.Searches.WithLabelValues("search").Inc()
	}

	results.Products = productsFromRows(products)
	results.Cases = casesFromRows(cases)
	return results, nil
}

func validSort(sort string) bool {
	switch sort {
	case repository.SortPriceAsc, repository.SortPriceDesc, repository.SortName,
		repository.SortNewest, repository.SortPopular:
		return true
	}
	return false
}

func reviewerName(first, last string) string {
	name := strings.TrimSpace(first)
	if last = strings.TrimSpace(last); last != "" {
		name += " " + string([]rune(last)[0]) + "."
	}
	if name == "" {
		return "Anonymous"
	}
	return name
}

func text(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

func limit(n int32) pgtype.Int4 {
	return pgtype.Int4{Int32: n, Valid: true}
}

func productFromRow(r repository.Product) Product {
	var sale *int64
	if r.SalePriceCents.Valid {
		v := r.SalePriceCents.Int64
		sale = &v
	}
	return Product{
		ID:                  r.ID,
		Name:                r.Name,
		Slug:                r.Slug,
		BrandID:             r.BrandID.Int64,
		CategoryID:          r.CategoryID.Int64,
		Description:         r.Description,
		PriceCents:          r.PriceCents,
		SalePriceCents:      sale,
		DisplayPriceCents:   domain.DisplayPriceCents(r.PriceCents, sale),
		DiscountPercent:     domain.DiscountPercent(r.PriceCents, sale),
		Stock:               r.Stock,
		ImageURL:            r.ImageUrl,
		Scale:               r.Scale,
		CarModel:            r.CarModel,
		CarYear:             r.CarYear.Int32,
		Color:               r.Color,
		Series:              r.Series,
		IsTreasureHunt:      r.IsTreasureHunt,
		IsSuperTreasureHunt: r.IsSuperTreasureHunt,
		IsFeatured:          r.IsFeatured,
		IsNewArrival:        r.IsNewArrival,
		CreatedAt:           r.CreatedAt.Time,
	}
}

func productsFromRows(rows []repository.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, productFromRow(r))
	}
	return out
}

func caseFromRow(r repository.HotWheelsCase) Case {
	return Case{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		Year:         r.Year,
		SeriesLetter: r.SeriesLetter,
		PriceCents:   r.PriceCents,
		CarsPerCase:  r.CarsPerCase,
		Description:  r.Description,
		ImageURL:     r.ImageUrl,
		Stock:        r.Stock,
		IsFeatured:   r.IsFeatured,
		CreatedAt:    r.CreatedAt.Time,
	}
}

func casesFromRows(rows []repository.HotWheelsCase) []Case {
	out := make([]Case, 0, len(rows))
	for _, r := range rows {
		out = append(out, caseFromRow(r))
	}
	return out
}

func categoryFromRow(r repository.Category) Category {
	return Category{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		CategoryType: r.CategoryType,
		TypeLabel:    domain.CategoryTypeLabels[r.CategoryType],
		Description:  r.Description,
		ImageURL:     r.ImageUrl,
	}
}

func categoriesFromRows(rows []repository.Category) []Category {
	out := make([]Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, categoryFromRow(r))
	}
	return out
}

func brandFromRow(r repository.Brand) Brand {
	return Brand{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		LogoURL:     r.LogoUrl,
	}
}

func brandsFromRows(rows []repository.Brand) []Brand {
	out := make([]Brand, 0, len(rows))
	for _, r := range rows {
		out = append(out, brandFromRow(r))
	}
	return out
}
