package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dukerupert/route66/internal/repository"
)

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(q))
}

func (s *Store) ListCategories(ctx context.Context) ([]repository.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListCategories"); err != nil {
		return nil, err
	}
	out := make([]repository.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b repository.Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (repository.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCategoryBySlug"); err != nil {
		return repository.Category{}, err
	}
	for _, c := range s.data.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return repository.Category{}, repository.ErrNoRows
}

func (s *Store) GetCategoryByID(ctx context.Context, id int64) (repository.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCategoryByID"); err != nil {
		return repository.Category{}, err
	}
	c, ok := s.data.categories[id]
	if !ok {
		return repository.Category{}, repository.ErrNoRows
	}
	return c, nil
}

func (s *Store) categorySlugTaken(slug string, excludeID int64) bool {
	for _, c := range s.data.categories {
		if c.Slug == slug && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(ctx context.Context, arg repository.CreateCategoryParams) (repository.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateCategory"); err != nil {
		return repository.Category{}, err
	}
	if s.categorySlugTaken(arg.Slug, 0) {
		return repository.Category{}, uniqueViolation("categories_slug_key")
	}
	c := repository.Category{
		ID:           s.data.id(),
		Name:         arg.Name,
		Slug:         arg.Slug,
		CategoryType: arg.CategoryType,
		Description:  arg.Description,
		ImageUrl:     arg.ImageUrl,
	}
	s.data.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, arg repository.UpdateCategoryParams) (repository.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateCategory"); err != nil {
		return repository.Category{}, err
	}
	if _, ok := s.data.categories[arg.ID]; !ok {
		return repository.Category{}, repository.ErrNoRows
	}
	if s.categorySlugTaken(arg.Slug, arg.ID) {
		return repository.Category{}, uniqueViolation("categories_slug_key")
	}
	c := repository.Category{
		ID:           arg.ID,
		Name:         arg.Name,
		Slug:         arg.Slug,
		CategoryType: arg.CategoryType,
		Description:  arg.Description,
		ImageUrl:     arg.ImageUrl,
	}
	s.data.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteCategory"); err != nil {
		return 0, err
	}
	if _, ok := s.data.categories[id]; !ok {
		return 0, nil
	}
	delete(s.data.categories, id)
	for pid, p := range s.data.products {
		if p.CategoryID.Valid && p.CategoryID.Int64 == id {
			p.CategoryID.Valid = false
			p.CategoryID.Int64 = 0
			s.data.products[pid] = p
		}
	}
	return 1, nil
}

func (s *Store) CategorySlugExists(ctx context.Context, arg repository.SlugExistsParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CategorySlugExists"); err != nil {
		return false, err
	}
	return s.categorySlugTaken(arg.Slug, arg.ExcludeID), nil
}

func (s *Store) ListBrands(ctx context.Context) ([]repository.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListBrands"); err != nil {
		return nil, err
	}
	out := make([]repository.Brand, 0, len(s.data.brands))
	for _, b := range s.data.brands {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b repository.Brand) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) GetBrandByID(ctx context.Context, id int64) (repository.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetBrandByID"); err != nil {
		return repository.Brand{}, err
	}
	b, ok := s.data.brands[id]
	if !ok {
		return repository.Brand{}, repository.ErrNoRows
	}
	return b, nil
}

func (s *Store) brandSlugTaken(slug string, excludeID int64) bool {
	for _, b := range s.data.brands {
		if b.Slug == slug && b.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *Store) CreateBrand(ctx context.Context, arg repository.CreateBrandParams) (repository.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateBrand"); err != nil {
		return repository.Brand{}, err
	}
	if s.brandSlugTaken(arg.Slug, 0) {
		return repository.Brand{}, uniqueViolation("brands_slug_key")
	}
	b := repository.Brand{
		ID:          s.data.id(),
		Name:        arg.Name,
		Slug:        arg.Slug,
		Description: arg.Description,
		LogoUrl:     arg.LogoUrl,
	}
	s.data.brands[b.ID] = b
	return b, nil
}

func (s *Store) UpdateBrand(ctx context.Context, arg repository.UpdateBrandParams) (repository.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateBrand"); err != nil {
		return repository.Brand{}, err
	}
	if _, ok := s.data.brands[arg.ID]; !ok {
		return repository.Brand{}, repository.ErrNoRows
	}
	if s.brandSlugTaken(arg.Slug, arg.ID) {
		return repository.Brand{}, uniqueViolation("brands_slug_key")
	}
	b := repository.Brand{
		ID:          arg.ID,
		Name:        arg.Name,
		Slug:        arg.Slug,
		Description: arg.Description,
		LogoUrl:     arg.LogoUrl,
	}
	s.data.brands[b.ID] = b
	return b, nil
}

func (s *Store) DeleteBrand(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteBrand"); err != nil {
		return 0, err
	}
	if _, ok := s.data.brands[id]; !ok {
		return 0, nil
	}
	delete(s.data.brands, id)
	for pid, p := range s.data.products {
		if p.BrandID.Valid && p.BrandID.Int64 == id {
			p.BrandID.Valid = false
			p.BrandID.Int64 = 0
			s.data.products[pid] = p
		}
	}
	return 1, nil
}

func (s *Store) BrandSlugExists(ctx context.Context, arg repository.SlugExistsParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("BrandSlugExists"); err != nil {
		return false, err
	}
	return s.brandSlugTaken(arg.Slug, arg.ExcludeID), nil
}

func (s *Store) CreateReview(ctx context.Context, arg repository.CreateReviewParams) (repository.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateReview"); err != nil {
		return repository.Review{}, err
	}
	if _, ok := s.data.products[arg.ProductID]; !ok {
		return repository.Review{}, &foreignKeyError{table: "products"}
	}
	r := repository.Review{
		ID:        s.data.id(),
		ProductID: arg.ProductID,
		UserID:    arg.UserID,
		Rating:    arg.Rating,
		Title:     arg.Title,
		Body:      arg.Body,
		CreatedAt: s.data.now(),
	}
	s.data.reviews[r.ID] = r
	return r, nil
}

func (s *Store) ListReviewsByProduct(ctx context.Context, productID int64) ([]repository.ListReviewsByProductRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListReviewsByProduct"); err != nil {
		return nil, err
	}
	out := []repository.ListReviewsByProductRow{}
	for _, r := range s.data.reviews {
		if r.ProductID != productID {
			continue
		}
		u := s.data.users[r.UserID]
		out = append(out, repository.ListReviewsByProductRow{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Title:     r.Title,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	slices.SortFunc(out, func(a, b repository.ListReviewsByProductRow) int {
		return cmp.Or(b.CreatedAt.Time.Compare(a.CreatedAt.Time), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (s *Store) GetProductRating(ctx context.Context, productID int64) (repository.GetProductRatingRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetProductRating"); err != nil {
		return repository.GetProductRatingRow{}, err
	}
	var row repository.GetProductRatingRow
	var sum int64
	for _, r := range s.data.reviews {
		if r.ProductID == productID {
			sum += int64(r.Rating)
			row.ReviewCount++
		}
	}
	if row.ReviewCount > 0 {
		row.AverageRating = float64(sum) / float64(row.ReviewCount)
	}
	return row, nil
}

type foreignKeyError struct {
	table string
}

func (e *foreignKeyError) Error() string {
	return "violates foreign key constraint on " + e.table
}
