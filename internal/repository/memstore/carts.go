package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/route66/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) GetOrCreateCart(ctx context.Context, userID int64) (repository.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetOrCreateCart"); err != nil {
		return repository.Cart{}, err
	}
	for _, c := range s.data.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	now := s.data.now()
	c := repository.Cart{ID: s.data.id(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	s.data.carts[c.ID] = c
	return c, nil
}

// LockCart only checks existence; ExecTx already serializes transactions.
func (s *Store) LockCart(ctx context.Context, id int64) (repository.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("LockCart"); err != nil {
		return repository.Cart{}, err
	}
	c, ok := s.data.carts[id]
	if !ok {
		return repository.Cart{}, repository.ErrNoRows
	}
	return c, nil
}

// CartCount returns how many carts exist for userID.
func (s *Store) CartCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.data.carts {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) upsertCartItem(cartID int64, productID, caseID pgtype.Int8) (repository.CartItem, error) {
	if _, ok := s.data.carts[cartID]; !ok {
		return repository.CartItem{}, &foreignKeyError{table: "carts"}
	}
	for id, ci := range s.data.cartItems {
		if ci.CartID == cartID && ci.ProductID == productID && ci.CaseID == caseID {
			ci.Quantity++
			s.data.cartItems[id] = ci
			return ci, nil
		}
	}
	ci := repository.CartItem{
		ID:        s.data.id(),
		CartID:    cartID,
		ProductID: productID,
		CaseID:    caseID,
		Quantity:  1,
		CreatedAt: s.data.now(),
	}
	s.data.cartItems[ci.ID] = ci
	return ci, nil
}

func (s *Store) AddProductToCart(ctx context.Context, arg repository.AddProductToCartParams) (repository.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("AddProductToCart"); err != nil {
		return repository.CartItem{}, err
	}
	if _, ok := s.data.products[arg.ProductID]; !ok {
		return repository.CartItem{}, &foreignKeyError{table: "products"}
	}
	return s.upsertCartItem(arg.CartID, nullInt8(arg.ProductID), pgtype.Int8{})
}

func (s *Store) AddCaseToCart(ctx context.Context, arg repository.AddCaseToCartParams) (repository.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("AddCaseToCart"); err != nil {
		return repository.CartItem{}, err
	}
	if _, ok := s.data.cases[arg.CaseID]; !ok {
		return repository.CartItem{}, &foreignKeyError{table: "hot_wheels_cases"}
	}
	return s.upsertCartItem(arg.CartID, pgtype.Int8{}, nullInt8(arg.CaseID))
}

func (s *Store) GetCartItemForUser(ctx context.Context, arg repository.GetCartItemForUserParams) (repository.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCartItemForUser"); err != nil {
		return repository.CartItem{}, err
	}
	ci, ok := s.data.cartItems[arg.ID]
	if !ok || s.data.carts[ci.CartID].UserID != arg.UserID {
		return repository.CartItem{}, repository.ErrNoRows
	}
	return ci, nil
}

func (s *Store) GetCartItems(ctx context.Context, cartID int64) ([]repository.GetCartItemsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCartItems"); err != nil {
		return nil, err
	}
	items := []repository.CartItem{}
	for _, ci := range s.data.cartItems {
		if ci.CartID == cartID {
			items = append(items, ci)
		}
	}
	slices.SortFunc(items, func(a, b repository.CartItem) int {
		return cmp.Or(a.CreatedAt.Time.Compare(b.CreatedAt.Time), cmp.Compare(a.ID, b.ID))
	})

	out := make([]repository.GetCartItemsRow, 0, len(items))
	for _, ci := range items {
		row := repository.GetCartItemsRow{
			ID:        ci.ID,
			CartID:    ci.CartID,
			ProductID: ci.ProductID,
			CaseID:    ci.CaseID,
			Quantity:  ci.Quantity,
		}
		if ci.ProductID.Valid {
			p := s.data.products[ci.ProductID.Int64]
			row.ItemName, row.ItemSlug, row.ImageUrl = p.Name, p.Slug, p.ImageUrl
			row.PriceCents, row.SalePriceCents, row.Stock = p.PriceCents, p.SalePriceCents, p.Stock
		} else {
			c := s.data.cases[ci.CaseID.Int64]
			row.ItemName, row.ItemSlug, row.ImageUrl = c.Name, c.Slug, c.ImageUrl
			row.PriceCents, row.Stock = c.PriceCents, c.Stock
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) CountCartUnits(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CountCartUnits"); err != nil {
		return 0, err
	}
	var n int64
	for _, ci := range s.data.cartItems {
		if s.data.carts[ci.CartID].UserID == userID {
			n += int64(ci.Quantity)
		}
	}
	return n, nil
}

func (s *Store) UpdateCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) (repository.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateCartItemQuantity"); err != nil {
		return repository.CartItem{}, err
	}
	ci, ok := s.data.cartItems[arg.ID]
	if !ok {
		return repository.CartItem{}, repository.ErrNoRows
	}
	if arg.Quantity < 1 {
		return repository.CartItem{}, &checkError{constraint: "cart_items_quantity_check"}
	}
	ci.Quantity = arg.Quantity
	s.data.cartItems[ci.ID] = ci
	return ci, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteCartItem"); err != nil {
		return err
	}
	delete(s.data.cartItems, id)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ClearCart"); err != nil {
		return err
	}
	for id, ci := range s.data.cartItems {
		if ci.CartID == cartID {
			delete(s.data.cartItems, id)
		}
	}
	return nil
}

type checkError struct {
	constraint string
}

func (e *checkError) Error() string {
	return "violates check constraint " + e.constraint
}
