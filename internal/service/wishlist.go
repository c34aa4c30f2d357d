package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
)

// WishlistService manages a user's saved products
type WishlistService interface {
	// Toggle adds the product when absent and removes it when present.
	// It reports whether the product is in the wishlist afterwards.
	Toggle(ctx context.Context, userID, productID int64) (added bool, name string, err error)
	List(ctx context.Context, userID int64) ([]Product, error)
}

type wishlistService struct {
	repo repository.Querier
}

// NewWishlistService creates a new WishlistService instance
func NewWishlistService(repo repository.Querier) WishlistService {
	return &wishlistService{repo: repo}
}

func (s *wishlistService) Toggle(ctx context.Context, userID, productID int64) (bool, string, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return false, "", ErrProductNotFound
		}
		return false, "", fmt.Errorf("failed to get product: %w", err)
	}

	wishlist, err := s.repo.GetOrCreateWishlist(ctx, userID)
	if err != nil {
		return false, "", fmt.Errorf("failed to get wishlist: %w", err)
	}

	params := repository.WishlistProductParams{WishlistID: wishlist.ID, ProductID: product.ID}

	removed, err := s.repo.RemoveWishlistProduct(ctx, params)
	if err != nil {
		return false, "", fmt.Errorf("failed to remove wishlist product: %w", err)
	}
	if removed > 0 {
		s.record("removed")
		return false, product.Name, nil
	}

	if _, err := s.repo.AddWishlistProduct(ctx, params); err != nil {
		return false, "", fmt.Errorf("failed to add wishlist product: %w", err)
	}
	s.record("added")
	return true, product.Name, nil
}

func (s *wishlistService) List(ctx context.Context, userID int64) ([]Product, error) {
	rows, err := s.repo.ListWishlistProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return productsFromRows(rows), nil
}

func (s *wishlistService) record(action string) {
	if telemetry.Business != nil {
		telemetry.Business.WishlistToggles.WithLabelValues(action).Inc()
	}
}
