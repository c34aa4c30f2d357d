package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const categoryColumns = `id, name, slug, category_type, description, image_url`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.CategoryType,
		&i.Description,
		&i.ImageUrl,
	)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT ` + categoryColumns + ` FROM categories
ORDER BY name, id`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		i, err := scanCategory(rows)
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

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getCategoryBySlug, slug))
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getCategoryByID, id))
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, slug, category_type, description, image_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Name         string
	Slug         string
	CategoryType string
	Description  string
	ImageUrl     string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory,
		arg.Name,
		arg.Slug,
		arg.CategoryType,
		arg.Description,
		arg.ImageUrl,
	)
	return scanCategory(row)
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories
SET name = $2, slug = $3, category_type = $4, description = $5, image_url = $6
WHERE id = $1
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	ID           int64
	Name         string
	Slug         string
	CategoryType string
	Description  string
	ImageUrl     string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory,
		arg.ID,
		arg.Name,
		arg.Slug,
		arg.CategoryType,
		arg.Description,
		arg.ImageUrl,
	)
	return scanCategory(row)
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = $1`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// SlugExistsParams checks a slug against a table. ExcludeID lets an
// update keep its own slug; pass 0 on create.
type SlugExistsParams struct {
	Slug      string
	ExcludeID int64
}

const categorySlugExists = `-- name: CategorySlugExists :one
SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`

func (q *Queries) CategorySlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, categorySlugExists, arg.Slug, arg.ExcludeID).Scan(&exists)
	return exists, err
}

const brandColumns = `id, name, slug, description, logo_url`

func scanBrand(row interface{ Scan(...any) error }) (Brand, error) {
	var i Brand
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.LogoUrl,
	)
	return i, err
}

const listBrands = `-- name: ListBrands :many
SELECT ` + brandColumns + ` FROM brands
ORDER BY name, id`

func (q *Queries) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := q.db.Query(ctx, listBrands)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Brand{}
	for rows.Next() {
		i, err := scanBrand(rows)
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

const getBrandByID = `-- name: GetBrandByID :one
SELECT ` + brandColumns + ` FROM brands WHERE id = $1`

func (q *Queries) GetBrandByID(ctx context.Context, id int64) (Brand, error) {
	return scanBrand(q.db.QueryRow(ctx, getBrandByID, id))
}

const createBrand = `-- name: CreateBrand :one
INSERT INTO brands (name, slug, description, logo_url)
VALUES ($1, $2, $3, $4)
RETURNING ` + brandColumns

type CreateBrandParams struct {
	Name        string
	Slug        string
	Description string
	LogoUrl     string
}

func (q *Queries) CreateBrand(ctx context.Context, arg CreateBrandParams) (Brand, error) {
	row := q.db.QueryRow(ctx, createBrand, arg.Name, arg.Slug, arg.Description, arg.LogoUrl)
	return scanBrand(row)
}

const updateBrand = `-- name: UpdateBrand :one
UPDATE brands
SET name = $2, slug = $3, description = $4, logo_url = $5
WHERE id = $1
RETURNING ` + brandColumns

type UpdateBrandParams struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	LogoUrl     string
}

func (q *Queries) UpdateBrand(ctx context.Context, arg UpdateBrandParams) (Brand, error) {
	row := q.db.QueryRow(ctx, updateBrand, arg.ID, arg.Name, arg.Slug, arg.Description, arg.LogoUrl)
	return scanBrand(row)
}

const deleteBrand = `-- name: DeleteBrand :execrows
DELETE FROM brands WHERE id = $1`

func (q *Queries) DeleteBrand(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBrand, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const brandSlugExists = `-- name: BrandSlugExists :one
SELECT EXISTS (SELECT 1 FROM brands WHERE slug = $1 AND id <> $2)`

func (q *Queries) BrandSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, brandSlugExists, arg.Slug, arg.ExcludeID).Scan(&exists)
	return exists, err
}

// Review queries live with the catalog since they only hang off products.

const createReview = `-- name: CreateReview :one
INSERT INTO reviews (product_id, user_id, rating, title, body)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, product_id, user_id, rating, title, body, created_at`

type CreateReviewParams struct {
	ProductID int64
	UserID    int64
	Rating    int32
	Title     string
	Body      string
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReview,
		arg.ProductID,
		arg.UserID,
		arg.Rating,
		arg.Title,
		arg.Body,
	)
	var i Review
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.UserID,
		&i.Rating,
		&i.Title,
		&i.Body,
		&i.CreatedAt,
	)
	return i, err
}

const listReviewsByProduct = `-- name: ListReviewsByProduct :many
SELECT r.id, r.product_id, r.user_id, r.rating, r.title, r.body, r.created_at,
       u.first_name, u.last_name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1
ORDER BY r.created_at DESC, r.id DESC`

type ListReviewsByProductRow struct {
	ID        int64
	ProductID int64
	UserID    int64
	Rating    int32
	Title     string
	Body      string
	CreatedAt pgtype.Timestamptz
	FirstName string
	LastName  string
}

func (q *Queries) ListReviewsByProduct(ctx context.Context, productID int64) ([]ListReviewsByProductRow, error) {
	rows, err := q.db.Query(ctx, listReviewsByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListReviewsByProductRow{}
	for rows.Next() {
		var i ListReviewsByProductRow
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.UserID,
			&i.Rating,
			&i.Title,
			&i.Body,
			&i.CreatedAt,
			&i.FirstName,
			&i.LastName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProductRating = `-- name: GetProductRating :one
SELECT COALESCE(AVG(rating), 0)::float8 AS average_rating,
       COUNT(*) AS review_count
FROM reviews
WHERE product_id = $1`

type GetProductRatingRow struct {
	AverageRating float64
	ReviewCount   int64
}

func (q *Queries) GetProductRating(ctx context.Context, productID int64) (GetProductRatingRow, error) {
	var i GetProductRatingRow
	err := q.db.QueryRow(ctx, getProductRating, productID).Scan(&i.AverageRating, &i.ReviewCount)
	return i, err
}
