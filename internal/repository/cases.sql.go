package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const caseColumns = `id, name, slug, year, series_letter, price_cents, cars_per_case, description,
       image_url, stock, is_featured, created_at`

func scanCase(row interface{ Scan(...any) error }) (HotWheelsCase, error) {
	var i HotWheelsCase
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Year,
		&i.SeriesLetter,
		&i.PriceCents,
		&i.CarsPerCase,
		&i.Description,
		&i.ImageUrl,
		&i.Stock,
		&i.IsFeatured,
		&i.CreatedAt,
	)
	return i, err
}

const listCases = `-- name: ListCases :many
SELECT ` + caseColumns + `
FROM hot_wheels_cases
WHERE ($1::boolean = FALSE OR stock > 0)
  AND ($2::boolean = FALSE OR is_featured)
  AND ($3::text IS NULL OR strpos(lower(name), lower($3)) > 0)
ORDER BY year DESC, series_letter, id DESC
LIMIT $4`

type ListCasesParams struct {
	InStockOnly  bool
	FeaturedOnly bool
	Query        pgtype.Text
	Limit        pgtype.Int4
}

func (q *Queries) ListCases(ctx context.Context, arg ListCasesParams) ([]HotWheelsCase, error) {
	rows, err := q.db.Query(ctx, listCases, arg.InStockOnly, arg.FeaturedOnly, arg.Query, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []HotWheelsCase{}
	for rows.Next() {
		i, err := scanCase(rows)
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

const getCaseBySlug = `-- name: GetCaseBySlug :one
SELECT ` + caseColumns + ` FROM hot_wheels_cases WHERE slug = $1`

func (q *Queries) GetCaseBySlug(ctx context.Context, slug string) (HotWheelsCase, error) {
	return scanCase(q.db.QueryRow(ctx, getCaseBySlug, slug))
}

const getCaseByID = `-- name: GetCaseByID :one
SELECT ` + caseColumns + ` FROM hot_wheels_cases WHERE id = $1`

func (q *Queries) GetCaseByID(ctx context.Context, id int64) (HotWheelsCase, error) {
	return scanCase(q.db.QueryRow(ctx, getCaseByID, id))
}

// CaseFields are the editable columns of a case.
type CaseFields struct {
	Name         string
	Slug         string
	Year         int32
	SeriesLetter string
	PriceCents   int64
	CarsPerCase  int32
	Description  string
	ImageUrl     string
	Stock        int32
	IsFeatured   bool
}

type CreateCaseParams = CaseFields

const createCase = `-- name: CreateCase :one
INSERT INTO hot_wheels_cases (
    name, slug, year, series_letter, price_cents, cars_per_case, description, image_url, stock, is_featured
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + caseColumns

func (q *Queries) CreateCase(ctx context.Context, arg CreateCaseParams) (HotWheelsCase, error) {
	row := q.db.QueryRow(ctx, createCase,
		arg.Name,
		arg.Slug,
		arg.Year,
		arg.SeriesLetter,
		arg.PriceCents,
		arg.CarsPerCase,
		arg.Description,
		arg.ImageUrl,
		arg.Stock,
		arg.IsFeatured,
	)
	return scanCase(row)
}

const updateCase = `-- name: UpdateCase :one
UPDATE hot_wheels_cases SET
    name = $2, slug = $3, year = $4, series_letter = $5, price_cents = $6,
    cars_per_case = $7, description = $8, image_url = $9, stock = $10, is_featured = $11
WHERE id = $1
RETURNING ` + caseColumns

type UpdateCaseParams struct {
	ID int64
	CaseFields
}

func (q *Queries) UpdateCase(ctx context.Context, arg UpdateCaseParams) (HotWheelsCase, error) {
	row := q.db.QueryRow(ctx, updateCase,
		arg.ID,
		arg.Name,
		arg.Slug,
		arg.Year,
		arg.SeriesLetter,
		arg.PriceCents,
		arg.CarsPerCase,
		arg.Description,
		arg.ImageUrl,
		arg.Stock,
		arg.IsFeatured,
	)
	return scanCase(row)
}

const deleteCase = `-- name: DeleteCase :execrows
DELETE FROM hot_wheels_cases WHERE id = $1`

func (q *Queries) DeleteCase(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCase, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const caseSlugExists = `-- name: CaseSlugExists :one
SELECT EXISTS (SELECT 1 FROM hot_wheels_cases WHERE slug = $1 AND id <> $2)`

func (q *Queries) CaseSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, caseSlugExists, arg.Slug, arg.ExcludeID).Scan(&exists)
	return exists, err
}

const decrementCaseStock = `-- name: DecrementCaseStock :execrows
UPDATE hot_wheels_cases SET stock = GREATEST(stock - $2, 0)
WHERE id = $1`

func (q *Queries) DecrementCaseStock(ctx context.Context, arg DecrementStockParams) (int64, error) {
	result, err := q.db.Exec(ctx, decrementCaseStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
