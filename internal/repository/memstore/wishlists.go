package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/route66/internal/repository"
)

func (s *Store) GetOrCreateWishlist(ctx context.Context, userID int64) (repository.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetOrCreateWishlist"); err != nil {
		return repository.Wishlist{}, err
	}
	for _, w := range s.data.wishlists {
		if w.UserID == userID {
			return w, nil
		}
	}
	w := repository.Wishlist{ID: s.data.id(), UserID: userID}
	s.data.wishlists[w.ID] = w
	return w, nil
}

func (s *Store) AddWishlistProduct(ctx context.Context, arg repository.WishlistProductParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("AddWishlistProduct"); err != nil {
		return 0, err
	}
	key := wishlistKey{wishlistID: arg.WishlistID, productID: arg.ProductID}
	if _, ok := s.data.wishlistProducts[key]; ok {
		return 0, nil
	}
	s.data.wishlistProducts[key] = s.data.now().Time
	return 1, nil
}

func (s *Store) RemoveWishlistProduct(ctx context.Context, arg repository.WishlistProductParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("RemoveWishlistProduct"); err != nil {
		return 0, err
	}
	key := wishlistKey{wishlistID: arg.WishlistID, productID: arg.ProductID}
	if _, ok := s.data.wishlistProducts[key]; !ok {
		return 0, nil
	}
	delete(s.data.wishlistProducts, key)
	return 1, nil
}

func (s *Store) wishlistIDFor(userID int64) (int64, bool) {
	for _, w := range s.data.wishlists {
		if w.UserID == userID {
			return w.ID, true
		}
	}
	return 0, false
}

func (s *Store) WishlistHasProduct(ctx context.Context, arg repository.WishlistHasProductParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("WishlistHasProduct"); err != nil {
		return false, err
	}
	wid, ok := s.wishlistIDFor(arg.UserID)
	if !ok {
		return false, nil
	}
	_, ok = s.data.wishlistProducts[wishlistKey{wishlistID: wid, productID: arg.ProductID}]
	return ok, nil
}

func (s *Store) ListWishlistProducts(ctx context.Context, userID int64) ([]repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListWishlistProducts"); err != nil {
		return nil, err
	}
	out := []repository.Product{}
	wid, ok := s.wishlistIDFor(userID)
	if !ok {
		return out, nil
	}
	for key := range s.data.wishlistProducts {
		if key.wishlistID == wid {
			if p, ok := s.data.products[key.productID]; ok {
				out = append(out, p)
			}
		}
	}
	slices.SortFunc(out, func(a, b repository.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}
