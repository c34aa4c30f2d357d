// Package memstore is an in-memory repository.Store for service and
// handler tests. It is test-only: nothing outside _test.go files imports
// it, and the server always runs on repository.SQLStore. It mirrors the SQL semantics the services rely on:
// unique slugs and emails, one cart and wishlist per user, upserted cart
// lines, and rollback of a failed ExecTx.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/dukerupert/route66/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type state struct {
	nextID           int64
	clock            time.Time
	users            map[int64]repository.User
	sessions         map[string]repository.Session
	categories       map[int64]repository.Category
	brands           map[int64]repository.Brand
	products         map[int64]repository.Product
	cases            map[int64]repository.HotWheelsCase
	reviews          map[int64]repository.Review
	carts            map[int64]repository.Cart
	cartItems        map[int64]repository.CartItem
	orders           map[int64]repository.Order
	orderItems       map[int64]repository.OrderItem
	wishlists        map[int64]repository.Wishlist
	wishlistProducts map[wishlistKey]time.Time
}

type wishlistKey struct {
	wishlistID int64
	productID  int64
}

func newState() *state {
	return &state{
		clock:            time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:            map[int64]repository.User{},
		sessions:         map[string]repository.Session{},
		categories:       map[int64]repository.Category{},
		brands:           map[int64]repository.Brand{},
		products:         map[int64]repository.Product{},
		cases:            map[int64]repository.HotWheelsCase{},
		reviews:          map[int64]repository.Review{},
		carts:            map[int64]repository.Cart{},
		cartItems:        map[int64]repository.CartItem{},
		orders:           map[int64]repository.Order{},
		orderItems:       map[int64]repository.OrderItem{},
		wishlists:        map[int64]repository.Wishlist{},
		wishlistProducts: map[wishlistKey]time.Time{},
	}
}

func (s *state) clone() *state {
	return &state{
		nextID:           s.nextID,
		clock:            s.clock,
		users:            maps.Clone(s.users),
		sessions:         maps.Clone(s.sessions),
		categories:       maps.Clone(s.categories),
		brands:           maps.Clone(s.brands),
		products:         maps.Clone(s.products),
		cases:            maps.Clone(s.cases),
		reviews:          maps.Clone(s.reviews),
		carts:            maps.Clone(s.carts),
		cartItems:        maps.Clone(s.cartItems),
		orders:           maps.Clone(s.orders),
		orderItems:       maps.Clone(s.orderItems),
		wishlists:        maps.Clone(s.wishlists),
		wishlistProducts: maps.Clone(s.wishlistProducts),
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// now advances a fake clock by one second per call so ordering by
// creation time is deterministic.
func (s *state) now() pgtype.Timestamptz {
	s.clock = s.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: s.clock, Valid: true}
}

// Store implements repository.Store.
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	data     *state
	failures map[string]error
	txCount  int
}

func New() *Store {
	return &Store{
		data:     newState(),
		failures: map[string]error{},
	}
}

var _ repository.Store = (*Store)(nil)

// FailOn makes every later call to the named Querier method return err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// Transactions reports how many ExecTx calls committed.
func (s *Store) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

// failure returns the error injected for method by FailOn. Callers hold
// s.mu.
func (s *Store) failure(method string) error {
	return s.failures[method]
}

// ExecTx serializes transactions and restores the previous state when fn
// fails.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func nullInt8(v int64) pgtype.Int8 {
	return pgtype.Int8{Int64: v, Valid: true}
}

// timeNow is the wall clock used for session expiry checks.
var timeNow = time.Now
