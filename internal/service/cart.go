package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/money"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/telemetry"
)

// CartService provides business logic for shopping cart operations
type CartService interface {
	AddProduct(ctx context.Context, userID, productID int64) (*CartLine, error)
	AddCase(ctx context.Context, userID, caseID int64) (*CartLine, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	SetQuantity(ctx context.Context, userID, itemID int64, quantity int32) error
	GetCartSummary(ctx context.Context, userID int64) (*CartSummary, error)
	CountUnits(ctx context.Context, userID int64) (int64, error)
}

// CartLine is the result of adding an item to the cart.
type CartLine struct {
	ItemID   int64
	Name     string
	Quantity int32
}

// CartSummary aggregates cart information with items and calculated totals
type CartSummary struct {
	CartID     int64
	Items      []CartItem
	TotalCents int64
	ItemCount  int64
}

func (s *CartSummary) IsEmpty() bool { return len(s.Items) == 0 }

// CartItem represents a cart line item with item details and calculated totals
type CartItem struct {
	ID             int64
	Kind           string
	ProductID      int64
	CaseID         int64
	Name           string
	Slug           string
	ImageURL       string
	Quantity       int32
	UnitPriceCents int64
	SubtotalCents  int64
	Stock          int32
}

type cartService struct {
	repo repository.Querier
}

// NewCartService creates a new CartService instance
func NewCartService(repo repository.Querier) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) AddProduct(ctx context.Context, userID, productID int64) (*CartLine, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item, err := s.repo.AddProductToCart(ctx, repository.AddProductToCartParams{
		CartID:    cart.ID,
		ProductID: product.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add product to cart: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsAdded.WithLabelValues(domain.ItemKindProduct).Inc()
	}

	return &CartLine{ItemID: item.ID, Name: product.Name, Quantity: item.Quantity}, nil
}

func (s *cartService) AddCase(ctx context.Context, userID, caseID int64) (*CartLine, error) {
	c, err := s.repo.GetCaseByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	item, err := s.repo.AddCaseToCart(ctx, repository.AddCaseToCartParams{
		CartID: cart.ID,
		CaseID: c.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add case to cart: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsAdded.WithLabelValues(domain.ItemKindCase).Inc()
	}

	return &CartLine{ItemID: item.ID, Name: c.Name, Quantity: item.Quantity}, nil
}

// RemoveItem deletes a line item from the user's own cart. Items in other
// carts are reported as not found.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCartItem(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsRemoved.Inc()
	}
	return nil
}

// SetQuantity sets a line item's quantity. A quantity of zero or less
// removes the item.
func (s *cartService) SetQuantity(ctx context.Context, userID, itemID int64, quantity int32) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteCartItem(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		if telemetry.Business != nil {
			telemetry.Business.CartItemsRemoved.Inc()
		}
		return nil
	}

	_, err = s.repo.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
		ID:       item.ID,
		Quantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return nil
}

func (s *cartService) GetCartSummary(ctx context.Context, userID int64) (*CartSummary, error) {
	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	rows, err := s.repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	return summarize(cart.ID, rows), nil
}

func (s *cartService) CountUnits(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.CountCartUnits(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return n, nil
}

func (s *cartService) ownedItem(ctx context.Context, userID, itemID int64) (repository.CartItem, error) {
	item, err := s.repo.GetCartItemForUser(ctx, repository.GetCartItemForUserParams{
		ID:     itemID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return repository.CartItem{}, ErrCartItemNotFound
		}
		return repository.CartItem{}, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}

// summarize prices each line at the item's current display price.
func summarize(cartID int64, rows []repository.GetCartItemsRow) *CartSummary {
	summary := &CartSummary{CartID: cartID, Items: make([]CartItem, 0, len(rows))}

	for _, row := range rows {
		item := CartItem{
			ID:             row.ID,
			Kind:           domain.ItemKindProduct,
			ProductID:      row.ProductID.Int64,
			CaseID:         row.CaseID.Int64,
			Name:           row.ItemName,
			Slug:           row.ItemSlug,
			ImageURL:       row.ImageUrl,
			Quantity:       row.Quantity,
			UnitPriceCents: unitPrice(row),
			Stock:          row.Stock,
		}
		if row.CaseID.Valid {
			item.Kind = domain.ItemKindCase
		}
		item.SubtotalCents = money.Multiply(item.UnitPriceCents, item.Quantity)

		summary.Items = append(summary.Items, item)
		summary.TotalCents += item.SubtotalCents
		summary.ItemCount += int64(item.Quantity)
	}

	return summary
}

func unitPrice(row repository.GetCartItemsRow) int64 {
	if !row.SalePriceCents.Valid {
		return row.PriceCents
	}
	sale := row.SalePriceCents.Int64
	return domain.DisplayPriceCents(row.PriceCents, &sale)
}
