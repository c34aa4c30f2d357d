package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/route66/internal/repository"
)

func (s *Store) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateOrder"); err != nil {
		return repository.Order{}, err
	}
	now := s.data.now()
	o := repository.Order{
		ID:              s.data.id(),
		UserID:          arg.UserID,
		Status:          arg.Status,
		FirstName:       arg.FirstName,
		LastName:        arg.LastName,
		Email:           arg.Email,
		Phone:           arg.Phone,
		ShippingAddress: arg.ShippingAddress,
		City:            arg.City,
		State:           arg.State,
		ZipCode:         arg.ZipCode,
		Country:         arg.Country,
		Notes:           arg.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.data.orders[o.ID] = o
	return o, nil
}

func (s *Store) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateOrderItem"); err != nil {
		return repository.OrderItem{}, err
	}
	if _, ok := s.data.orders[arg.OrderID]; !ok {
		return repository.OrderItem{}, &foreignKeyError{table: "orders"}
	}
	oi := repository.OrderItem{
		ID:         s.data.id(),
		OrderID:    arg.OrderID,
		ProductID:  arg.ProductID,
		CaseID:     arg.CaseID,
		ItemName:   arg.ItemName,
		Quantity:   arg.Quantity,
		PriceCents: arg.PriceCents,
	}
	s.data.orderItems[oi.ID] = oi
	return oi, nil
}

func (s *Store) UpdateOrderTotal(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateOrderTotal"); err != nil {
		return 0, err
	}
	o, ok := s.data.orders[id]
	if !ok {
		return 0, repository.ErrNoRows
	}
	var total int64
	for _, oi := range s.data.orderItems {
		if oi.OrderID == id {
			total += oi.PriceCents * int64(oi.Quantity)
		}
	}
	o.TotalCents = total
	o.UpdatedAt = s.data.now()
	s.data.orders[id] = o
	return total, nil
}

func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]repository.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetOrderItems"); err != nil {
		return nil, err
	}
	out := []repository.OrderItem{}
	for _, oi := range s.data.orderItems {
		if oi.OrderID == orderID {
			out = append(out, oi)
		}
	}
	slices.SortFunc(out, func(a, b repository.OrderItem) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetOrderForUser(ctx context.Context, arg repository.GetOrderForUserParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetOrderForUser"); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.data.orders[arg.ID]
	if !ok || o.UserID != arg.UserID {
		return repository.Order{}, repository.ErrNoRows
	}
	return o, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetOrderByID"); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.data.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNoRows
	}
	return o, nil
}

func (s *Store) ordersWhere(keep func(repository.Order) bool) []repository.ListOrdersRow {
	out := []repository.ListOrdersRow{}
	for _, o := range s.data.orders {
		if !keep(o) {
			continue
		}
		var count int64
		for _, oi := range s.data.orderItems {
			if oi.OrderID == o.ID {
				count += int64(oi.Quantity)
			}
		}
		out = append(out, repository.ListOrdersRow{Order: o, ItemCount: count})
	}
	slices.SortFunc(out, func(a, b repository.ListOrdersRow) int {
		return cmp.Or(b.CreatedAt.Time.Compare(a.CreatedAt.Time), cmp.Compare(b.ID, a.ID))
	})
	return out
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]repository.ListOrdersRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListOrdersByUser"); err != nil {
		return nil, err
	}
	return s.ordersWhere(func(o repository.Order) bool { return o.UserID == userID }), nil
}

func (s *Store) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.ListOrdersRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListOrders"); err != nil {
		return nil, err
	}
	out := s.ordersWhere(func(o repository.Order) bool {
		return !arg.Status.Valid || o.Status == arg.Status.String
	})
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

// OrderCount returns the number of orders in the store.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateOrderStatus"); err != nil {
		return repository.Order{}, err
	}
	o, ok := s.data.orders[arg.ID]
	if !ok {
		return repository.Order{}, repository.ErrNoRows
	}
	o.Status = arg.Status
	o.TrackingNumber = arg.TrackingNumber
	o.UpdatedAt = s.data.now()
	s.data.orders[o.ID] = o
	return o, nil
}
