package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, slug, brand_id, category_id, description, price_cents, sale_price_cents,
       stock, image_url, scale, car_model, car_year, color, series, is_treasure_hunt,
       is_super_treasure_hunt, is_featured, is_new_arrival, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.BrandID,
		&i.CategoryID,
		&i.Description,
		&i.PriceCents,
		&i.SalePriceCents,
		&i.Stock,
		&i.ImageUrl,
		&i.Scale,
		&i.CarModel,
		&i.CarYear,
		&i.Color,
		&i.Series,
		&i.IsTreasureHunt,
		&i.IsSuperTreasureHunt,
		&i.IsFeatured,
		&i.IsNewArrival,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectProducts(rows pgx.Rows, err error) ([]Product, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Product sort keys understood by ListProducts. Anything else falls back
// to newest first.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
	SortNewest    = "-created_at"
	SortPopular   = "popular"
)

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + `
FROM products
WHERE ($1::boolean = FALSE OR stock > 0)
  AND ($2::text IS NULL
       OR strpos(lower(name), lower($2)) > 0
       OR strpos(lower(car_model), lower($2)) > 0
       OR strpos(lower(description), lower($2)) > 0
       OR strpos(lower(series), lower($2)) > 0)
  AND ($3::text IS NULL OR category_id = (SELECT c.id FROM categories c WHERE c.slug = $3))
  AND ($4::bigint IS NULL OR category_id = $4)
  AND ($5::bigint IS NULL OR brand_id = $5)
  AND ($6::text IS NULL OR scale = $6)
  AND ($7::boolean = FALSE OR is_treasure_hunt)
  AND ($8::boolean = FALSE OR is_featured)
  AND ($9::boolean = FALSE OR is_new_arrival)
  AND ($10::bigint IS NULL OR price_cents >= $10)
  AND ($11::bigint IS NULL OR price_cents <= $11)
  AND ($12::bigint IS NULL OR id <> $12)
ORDER BY
  CASE WHEN $13::text = 'price_asc' THEN price_cents END ASC,
  CASE WHEN $13::text = 'price_desc' THEN price_cents END DESC,
  CASE WHEN $13::text = 'name' THEN name END ASC,
  CASE WHEN $13::text = 'popular' THEN id END DESC,
  created_at DESC,
  id DESC
LIMIT $14`

// ListProductsParams filters the catalog. Null fields are ignored; a null
// Limit returns every match.
type ListProductsParams struct {
	InStockOnly      bool
	Query            pgtype.Text
	CategorySlug     pgtype.Text
	CategoryID       pgtype.Int8
	BrandID          pgtype.Int8
	Scale            pgtype.Text
	TreasureHuntOnly bool
	FeaturedOnly     bool
	NewArrivalOnly   bool
	MinPriceCents    pgtype.Int8
	MaxPriceCents    pgtype.Int8
	ExcludeID        pgtype.Int8
	SortBy           string
	Limit            pgtype.Int4
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	return collectProducts(q.db.Query(ctx, listProducts,
		arg.InStockOnly,
		arg.Query,
		arg.CategorySlug,
		arg.CategoryID,
		arg.BrandID,
		arg.Scale,
		arg.TreasureHuntOnly,
		arg.FeaturedOnly,
		arg.NewArrivalOnly,
		arg.MinPriceCents,
		arg.MaxPriceCents,
		arg.ExcludeID,
		arg.SortBy,
		arg.Limit,
	))
}

const searchProducts = `-- name: SearchProducts :many
SELECT ` + productColumns + `
FROM products
WHERE strpos(lower(name), lower($1)) > 0
   OR strpos(lower(car_model), lower($1)) > 0
   OR strpos(lower(description), lower($1)) > 0
ORDER BY created_at DESC, id DESC`

func (q *Queries) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	return collectProducts(q.db.Query(ctx, searchProducts, query))
}

const getProductBySlug = `-- name: GetProductBySlug :one
SELECT ` + productColumns + ` FROM products WHERE slug = $1`

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductBySlug, slug))
}

const getProductByID = `-- name: GetProductByID :one
SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProductByID(ctx context.Context, id int64) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductByID, id))
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (
    name, slug, brand_id, category_id, description, price_cents, sale_price_cents,
    stock, image_url, scale, car_model, car_year, color, series, is_treasure_hunt,
    is_super_treasure_hunt, is_featured, is_new_arrival
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
)
RETURNING ` + productColumns

// ProductFields are the editable columns of a product.
type ProductFields struct {
	Name                string
	Slug                string
	BrandID             pgtype.Int8
	CategoryID          pgtype.Int8
	Description         string
	PriceCents          int64
	SalePriceCents      pgtype.Int8
	Stock               int32
	ImageUrl            string
	Scale               string
	CarModel            string
	CarYear             pgtype.Int4
	Color               string
	Series              string
	IsTreasureHunt      bool
	IsSuperTreasureHunt bool
	IsFeatured          bool
	IsNewArrival        bool
}

type CreateProductParams = ProductFields

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Slug,
		arg.BrandID,
		arg.CategoryID,
		arg.Description,
		arg.PriceCents,
		arg.SalePriceCents,
		arg.Stock,
		arg.ImageUrl,
		arg.Scale,
		arg.CarModel,
		arg.CarYear,
		arg.Color,
		arg.Series,
		arg.IsTreasureHunt,
		arg.IsSuperTreasureHunt,
		arg.IsFeatured,
		arg.IsNewArrival,
	)
	return scanProduct(row)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products SET
    name = $2, slug = $3, brand_id = $4, category_id = $5, description = $6,
    price_cents = $7, sale_price_cents = $8, stock = $9, image_url = $10, scale = $11,
    car_model = $12, car_year = $13, color = $14, series = $15, is_treasure_hunt = $16,
    is_super_treasure_hunt = $17, is_featured = $18, is_new_arrival = $19,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID int64
	ProductFields
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Slug,
		arg.BrandID,
		arg.CategoryID,
		arg.Description,
		arg.PriceCents,
		arg.SalePriceCents,
		arg.Stock,
		arg.ImageUrl,
		arg.Scale,
		arg.CarModel,
		arg.CarYear,
		arg.Color,
		arg.Series,
		arg.IsTreasureHunt,
		arg.IsSuperTreasureHunt,
		arg.IsFeatured,
		arg.IsNewArrival,
	)
	return scanProduct(row)
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const productSlugExists = `-- name: ProductSlugExists :one
SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`

func (q *Queries) ProductSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, productSlugExists, arg.Slug, arg.ExcludeID).Scan(&exists)
	return exists, err
}

const decrementProductStock = `-- name: DecrementProductStock :execrows
UPDATE products SET stock = GREATEST(stock - $2, 0), updated_at = NOW()
WHERE id = $1`

type DecrementStockParams struct {
	ID       int64
	Quantity int32
}

// DecrementProductStock floors stock at zero. It returns 0 rows when the
// product no longer exists.
func (q *Queries) DecrementProductStock(ctx context.Context, arg DecrementStockParams) (int64, error) {
	result, err := q.db.Exec(ctx, decrementProductStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
