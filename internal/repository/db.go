// Package repository holds the PostgreSQL queries behind the storefront.
// The layout follows sqlc conventions: one method per named query on
// Queries, a Querier interface for mocking, and XxxParams structs.
//
// The *.sql.go files are hand-maintained, not generated: they share
// column lists and build the product filter at runtime, which sqlc
// cannot express. Each query keeps its "-- name: X :kind" header, and
// every X must be a Queries method listed on Querier. The schema lives
// in migrations/.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

// ErrNoRows is returned by :one queries that match nothing.
var ErrNoRows = pgx.ErrNoRows

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
