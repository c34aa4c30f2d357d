package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, status, total_cents, first_name, last_name, email, phone,
       shipping_address, city, state, zip_code, country, notes, tracking_number,
       created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, extra ...any) (Order, error) {
	var i Order
	dest := []any{
		&i.ID,
		&i.UserID,
		&i.Status,
		&i.TotalCents,
		&i.FirstName,
		&i.LastName,
		&i.Email,
		&i.Phone,
		&i.ShippingAddress,
		&i.City,
		&i.State,
		&i.ZipCode,
		&i.Country,
		&i.Notes,
		&i.TrackingNumber,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (
    user_id, status, total_cents, first_name, last_name, email, phone,
    shipping_address, city, state, zip_code, country, notes
) VALUES ($1, $2, 0, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	UserID          int64
	Status          string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	ShippingAddress string
	City            string
	State           string
	ZipCode         string
	Country         string
	Notes           string
}

// CreateOrder inserts an order with a zero total; UpdateOrderTotal fills
// it in once the items exist.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.UserID,
		arg.Status,
		arg.FirstName,
		arg.LastName,
		arg.Email,
		arg.Phone,
		arg.ShippingAddress,
		arg.City,
		arg.State,
		arg.ZipCode,
		arg.Country,
		arg.Notes,
	)
	return scanOrder(row)
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (order_id, product_id, case_id, item_name, quantity, price_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_id, product_id, case_id, item_name, quantity, price_cents`

type CreateOrderItemParams struct {
	OrderID    int64
	ProductID  pgtype.Int8
	CaseID     pgtype.Int8
	ItemName   string
	Quantity   int32
	PriceCents int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.CaseID,
		arg.ItemName,
		arg.Quantity,
		arg.PriceCents,
	)
	return scanOrderItem(row)
}

func scanOrderItem(row interface{ Scan(...any) error }) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.ProductID,
		&i.CaseID,
		&i.ItemName,
		&i.Quantity,
		&i.PriceCents,
	)
	return i, err
}

const updateOrderTotal = `-- name: UpdateOrderTotal :one
UPDATE orders SET
    total_cents = (SELECT COALESCE(SUM(price_cents * quantity), 0) FROM order_items WHERE order_id = $1),
    updated_at = NOW()
WHERE id = $1
RETURNING total_cents`

// UpdateOrderTotal recomputes the total from the order's items.
func (q *Queries) UpdateOrderTotal(ctx context.Context, id int64) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, updateOrderTotal, id).Scan(&total)
	return total, err
}

const getOrderItems = `-- name: GetOrderItems :many
SELECT id, order_id, product_id, case_id, item_name, quantity, price_cents
FROM order_items
WHERE order_id = $1
ORDER BY id`

func (q *Queries) GetOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, getOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
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

const getOrderForUser = `-- name: GetOrderForUser :one
SELECT ` + orderColumns + ` FROM orders
WHERE id = $1 AND user_id = $2`

type GetOrderForUserParams struct {
	ID     int64
	UserID int64
}

func (q *Queries) GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUser, arg.ID, arg.UserID))
}

const getOrderByID = `-- name: GetOrderByID :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrderByID(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

// ListOrdersRow is an order plus the number of units it holds.
type ListOrdersRow struct {
	Order
	ItemCount int64
}

const listOrdersByUser = `-- name: ListOrdersByUser :many
SELECT ` + orderColumns + `,
       (SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = orders.id)::bigint AS item_count
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListOrdersByUser(ctx context.Context, userID int64) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listOrdersByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListOrdersRow{}
	for rows.Next() {
		var count int64
		o, err := scanOrder(rows, &count)
		if err != nil {
			return nil, err
		}
		items = append(items, ListOrdersRow{Order: o, ItemCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + `,
       (SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = orders.id)::bigint AS item_count
FROM orders
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2`

type ListOrdersParams struct {
	Status pgtype.Text
	Limit  int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]ListOrdersRow, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Status, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListOrdersRow{}
	for rows.Next() {
		var count int64
		o, err := scanOrder(rows, &count)
		if err != nil {
			return nil, err
		}
		items = append(items, ListOrdersRow{Order: o, ItemCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $2, tracking_number = $3, updated_at = NOW()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID             int64
	Status         string
	TrackingNumber string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.TrackingNumber))
}
