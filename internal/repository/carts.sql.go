package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getOrCreateCart = `-- name: GetOrCreateCart :one
INSERT INTO carts (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
RETURNING id, user_id, created_at, updated_at`

// GetOrCreateCart returns the user's cart, creating it on first use. The
// unique user_id keeps it one-to-one under concurrent requests.
func (q *Queries) GetOrCreateCart(ctx context.Context, userID int64) (Cart, error) {
	row := q.db.QueryRow(ctx, getOrCreateCart, userID)
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const lockCart = `-- name: LockCart :one
SELECT id, user_id, created_at, updated_at FROM carts
WHERE id = $1
FOR UPDATE`

// LockCart takes a row lock on the cart for the rest of the transaction.
func (q *Queries) LockCart(ctx context.Context, id int64) (Cart, error) {
	row := q.db.QueryRow(ctx, lockCart, id)
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const addProductToCart = `-- name: AddProductToCart :one
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (cart_id, product_id) WHERE product_id IS NOT NULL
DO UPDATE SET quantity = cart_items.quantity + 1
RETURNING id, cart_id, product_id, case_id, quantity, created_at`

type AddProductToCartParams struct {
	CartID    int64
	ProductID int64
}

func (q *Queries) AddProductToCart(ctx context.Context, arg AddProductToCartParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, addProductToCart, arg.CartID, arg.ProductID))
}

const addCaseToCart = `-- name: AddCaseToCart :one
INSERT INTO cart_items (cart_id, case_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (cart_id, case_id) WHERE case_id IS NOT NULL
DO UPDATE SET quantity = cart_items.quantity + 1
RETURNING id, cart_id, product_id, case_id, quantity, created_at`

type AddCaseToCartParams struct {
	CartID int64
	CaseID int64
}

func (q *Queries) AddCaseToCart(ctx context.Context, arg AddCaseToCartParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, addCaseToCart, arg.CartID, arg.CaseID))
}

func scanCartItem(row interface{ Scan(...any) error }) (CartItem, error) {
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ProductID,
		&i.CaseID,
		&i.Quantity,
		&i.CreatedAt,
	)
	return i, err
}

const getCartItemForUser = `-- name: GetCartItemForUser :one
SELECT ci.id, ci.cart_id, ci.product_id, ci.case_id, ci.quantity, ci.created_at
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE ci.id = $1 AND c.user_id = $2`

type GetCartItemForUserParams struct {
	ID     int64
	UserID int64
}

// GetCartItemForUser only matches items in the given user's cart.
func (q *Queries) GetCartItemForUser(ctx context.Context, arg GetCartItemForUserParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, getCartItemForUser, arg.ID, arg.UserID))
}

const getCartItems = `-- name: GetCartItems :many
SELECT ci.id, ci.cart_id, ci.product_id, ci.case_id, ci.quantity,
       COALESCE(p.name, hc.name) AS item_name,
       COALESCE(p.slug, hc.slug) AS item_slug,
       COALESCE(p.image_url, hc.image_url) AS image_url,
       COALESCE(p.price_cents, hc.price_cents) AS price_cents,
       p.sale_price_cents,
       COALESCE(p.stock, hc.stock) AS stock
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
LEFT JOIN hot_wheels_cases hc ON hc.id = ci.case_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at, ci.id`

type GetCartItemsRow struct {
	ID             int64
	CartID         int64
	ProductID      pgtype.Int8
	CaseID         pgtype.Int8
	Quantity       int32
	ItemName       string
	ItemSlug       string
	ImageUrl       string
	PriceCents     int64
	SalePriceCents pgtype.Int8
	Stock          int32
}

func (q *Queries) GetCartItems(ctx context.Context, cartID int64) ([]GetCartItemsRow, error) {
	rows, err := q.db.Query(ctx, getCartItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetCartItemsRow{}
	for rows.Next() {
		var i GetCartItemsRow
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ProductID,
			&i.CaseID,
			&i.Quantity,
			&i.ItemName,
			&i.ItemSlug,
			&i.ImageUrl,
			&i.PriceCents,
			&i.SalePriceCents,
			&i.Stock,
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

const countCartUnits = `-- name: CountCartUnits :one
SELECT COALESCE(SUM(ci.quantity), 0)::bigint
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
WHERE c.user_id = $1`

// CountCartUnits sums quantities across the user's cart.
func (q *Queries) CountCartUnits(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countCartUnits, userID).Scan(&count)
	return count, err
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items SET quantity = $2
WHERE id = $1
RETURNING id, cart_id, product_id, case_id, quantity, created_at`

type UpdateCartItemQuantityParams struct {
	ID       int64
	Quantity int32
}

func (q *Queries) UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error) {
	return scanCartItem(q.db.QueryRow(ctx, updateCartItemQuantity, arg.ID, arg.Quantity))
}

const deleteCartItem = `-- name: DeleteCartItem :exec
DELETE FROM cart_items WHERE id = $1`

func (q *Queries) DeleteCartItem(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteCartItem, id)
	return err
}

const clearCart = `-- name: ClearCart :exec
DELETE FROM cart_items WHERE cart_id = $1`

func (q *Queries) ClearCart(ctx context.Context, cartID int64) error {
	_, err := q.db.Exec(ctx, clearCart, cartID)
	return err
}
