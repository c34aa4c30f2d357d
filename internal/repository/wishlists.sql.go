package repository

import "context"

const getOrCreateWishlist = `-- name: GetOrCreateWishlist :one
INSERT INTO wishlists (user_id) VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id, user_id`

func (q *Queries) GetOrCreateWishlist(ctx context.Context, userID int64) (Wishlist, error) {
	var i Wishlist
	err := q.db.QueryRow(ctx, getOrCreateWishlist, userID).Scan(&i.ID, &i.UserID)
	return i, err
}

type WishlistProductParams struct {
	WishlistID int64
	ProductID  int64
}

const addWishlistProduct = `-- name: AddWishlistProduct :execrows
INSERT INTO wishlist_products (wishlist_id, product_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`

func (q *Queries) AddWishlistProduct(ctx context.Context, arg WishlistProductParams) (int64, error) {
	result, err := q.db.Exec(ctx, addWishlistProduct, arg.WishlistID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const removeWishlistProduct = `-- name: RemoveWishlistProduct :execrows
DELETE FROM wishlist_products WHERE wishlist_id = $1 AND product_id = $2`

func (q *Queries) RemoveWishlistProduct(ctx context.Context, arg WishlistProductParams) (int64, error) {
	result, err := q.db.Exec(ctx, removeWishlistProduct, arg.WishlistID, arg.ProductID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const wishlistHasProduct = `-- name: WishlistHasProduct :one
SELECT EXISTS (
    SELECT 1 FROM wishlist_products wp
    JOIN wishlists w ON w.id = wp.wishlist_id
    WHERE w.user_id = $1 AND wp.product_id = $2
)`

type WishlistHasProductParams struct {
	UserID    int64
	ProductID int64
}

func (q *Queries) WishlistHasProduct(ctx context.Context, arg WishlistHasProductParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, wishlistHasProduct, arg.UserID, arg.ProductID).Scan(&exists)
	return exists, err
}

const listWishlistProducts = `-- name: ListWishlistProducts :many
SELECT ` + productColumns + `
FROM products
WHERE id IN (
    SELECT wp.product_id FROM wishlist_products wp
    JOIN wishlists w ON w.id = wp.wishlist_id
    WHERE w.user_id = $1
)
ORDER BY name, id`

func (q *Queries) ListWishlistProducts(ctx context.Context, userID int64) ([]Product, error) {
	return collectProducts(q.db.Query(ctx, listWishlistProducts, userID))
}
