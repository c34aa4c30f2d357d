package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/route66/internal/repository"
)

func newestFirst(a, b repository.Product) int {
	return cmp.Or(b.CreatedAt.Time.Compare(a.CreatedAt.Time), cmp.Compare(b.ID, a.ID))
}

func (s *Store) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListProducts"); err != nil {
		return nil, err
	}

	var categoryBySlug int64 = -1
	if arg.CategorySlug.Valid {
		for _, c := range s.data.categories {
			if c.Slug == arg.CategorySlug.String {
				categoryBySlug = c.ID
			}
		}
	}

	out := []repository.Product{}
	for _, p := range s.data.products {
		switch {
		case arg.InStockOnly && p.Stock <= 0:
			continue
		case arg.Query.Valid && !(contains(p.Name, arg.Query.String) ||
			contains(p.CarModel, arg.Query.String) ||
			contains(p.Description, arg.Query.String) ||
			contains(p.Series, arg.Query.String)):
			continue
		case arg.CategorySlug.Valid && (!p.CategoryID.Valid || p.CategoryID.Int64 != categoryBySlug):
			continue
		case arg.CategoryID.Valid && (!p.CategoryID.Valid || p.CategoryID.Int64 != arg.CategoryID.Int64):
			continue
		case arg.BrandID.Valid && (!p.BrandID.Valid || p.BrandID.Int64 != arg.BrandID.Int64):
			continue
		case arg.Scale.Valid && p.Scale != arg.Scale.String:
			continue
		case arg.TreasureHuntOnly && !p.IsTreasureHunt:
			continue
		case arg.FeaturedOnly && !p.IsFeatured:
			continue
		case arg.NewArrivalOnly && !p.IsNewArrival:
			continue
		case arg.MinPriceCents.Valid && p.PriceCents < arg.MinPriceCents.Int64:
			continue
		case arg.MaxPriceCents.Valid && p.PriceCents > arg.MaxPriceCents.Int64:
			continue
		case arg.ExcludeID.Valid && p.ID == arg.ExcludeID.Int64:
			continue
		}
		out = append(out, p)
	}

	slices.SortFunc(out, func(a, b repository.Product) int {
		switch arg.SortBy {
		case repository.SortPriceAsc:
			return cmp.Or(cmp.Compare(a.PriceCents, b.PriceCents), newestFirst(a, b))
		case repository.SortPriceDesc:
			return cmp.Or(cmp.Compare(b.PriceCents, a.PriceCents), newestFirst(a, b))
		case repository.SortName:
			return cmp.Or(cmp.Compare(a.Name, b.Name), newestFirst(a, b))
		case repository.SortPopular:
			return cmp.Compare(b.ID, a.ID)
		}
		return newestFirst(a, b)
	})

	if arg.Limit.Valid && int(arg.Limit.Int32) < len(out) {
		out = out[:arg.Limit.Int32]
	}
	return out, nil
}

func (s *Store) SearchProducts(ctx context.Context, query string) ([]repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("SearchProducts"); err != nil {
		return nil, err
	}
	out := []repository.Product{}
	for _, p := range s.data.products {
		if contains(p.Name, query) || contains(p.CarModel, query) || contains(p.Description, query) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetProductBySlug"); err != nil {
		return repository.Product{}, err
	}
	for _, p := range s.data.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.Product{}, repository.ErrNoRows
}

func (s *Store) GetProductByID(ctx context.Context, id int64) (repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetProductByID"); err != nil {
		return repository.Product{}, err
	}
	p, ok := s.data.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNoRows
	}
	return p, nil
}

func (s *Store) productSlugTaken(slug string, excludeID int64) bool {
	for _, p := range s.data.products {
		if p.Slug == slug && p.ID != excludeID {
			return true
		}
	}
	return false
}

func applyProductFields(p *repository.Product, f repository.ProductFields) {
	p.Name = f.Name
	p.Slug = f.Slug
	p.BrandID = f.BrandID
	p.CategoryID = f.CategoryID
	p.Description = f.Description
	p.PriceCents = f.PriceCents
	p.SalePriceCents = f.SalePriceCents
	p.Stock = f.Stock
	p.ImageUrl = f.ImageUrl
	p.Scale = f.Scale
	p.CarModel = f.CarModel
	p.CarYear = f.CarYear
	p.Color = f.Color
	p.Series = f.Series
	p.IsTreasureHunt = f.IsTreasureHunt
	p.IsSuperTreasureHunt = f.IsSuperTreasureHunt
	p.IsFeatured = f.IsFeatured
	p.IsNewArrival = f.IsNewArrival
}

func (s *Store) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateProduct"); err != nil {
		return repository.Product{}, err
	}
	if s.productSlugTaken(arg.Slug, 0) {
		return repository.Product{}, uniqueViolation("products_slug_key")
	}
	now := s.data.now()
	p := repository.Product{ID: s.data.id(), CreatedAt: now, UpdatedAt: now}
	applyProductFields(&p, arg)
	if p.Scale == "" {
		p.Scale = "1:64"
	}
	s.data.products[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateProduct"); err != nil {
		return repository.Product{}, err
	}
	p, ok := s.data.products[arg.ID]
	if !ok {
		return repository.Product{}, repository.ErrNoRows
	}
	if s.productSlugTaken(arg.Slug, arg.ID) {
		return repository.Product{}, uniqueViolation("products_slug_key")
	}
	applyProductFields(&p, arg.ProductFields)
	p.UpdatedAt = s.data.now()
	s.data.products[p.ID] = p
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteProduct"); err != nil {
		return 0, err
	}
	if _, ok := s.data.products[id]; !ok {
		return 0, nil
	}
	delete(s.data.products, id)
	for cid, ci := range s.data.cartItems {
		if ci.ProductID.Valid && ci.ProductID.Int64 == id {
			delete(s.data.cartItems, cid)
		}
	}
	for oid, oi := range s.data.orderItems {
		if oi.ProductID.Valid && oi.ProductID.Int64 == id {
			oi.ProductID.Valid = false
			oi.ProductID.Int64 = 0
			s.data.orderItems[oid] = oi
		}
	}
	for rid, r := range s.data.reviews {
		if r.ProductID == id {
			delete(s.data.reviews, rid)
		}
	}
	for k := range s.data.wishlistProducts {
		if k.productID == id {
			delete(s.data.wishlistProducts, k)
		}
	}
	return 1, nil
}

func (s *Store) ProductSlugExists(ctx context.Context, arg repository.SlugExistsParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ProductSlugExists"); err != nil {
		return false, err
	}
	return s.productSlugTaken(arg.Slug, arg.ExcludeID), nil
}

func (s *Store) DecrementProductStock(ctx context.Context, arg repository.DecrementStockParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DecrementProductStock"); err != nil {
		return 0, err
	}
	p, ok := s.data.products[arg.ID]
	if !ok {
		return 0, nil
	}
	p.Stock = max(p.Stock-arg.Quantity, 0)
	s.data.products[p.ID] = p
	return 1, nil
}
