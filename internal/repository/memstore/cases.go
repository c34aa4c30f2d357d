package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/dukerupert/route66/internal/repository"
)

func (s *Store) ListCases(ctx context.Context, arg repository.ListCasesParams) ([]repository.HotWheelsCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListCases"); err != nil {
		return nil, err
	}
	out := []repository.HotWheelsCase{}
	for _, c := range s.data.cases {
		if arg.InStockOnly && c.Stock <= 0 {
			continue
		}
		if arg.FeaturedOnly && !c.IsFeatured {
			continue
		}
		if arg.Query.Valid && !contains(c.Name, arg.Query.String) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b repository.HotWheelsCase) int {
		return cmp.Or(
			cmp.Compare(b.Year, a.Year),
			cmp.Compare(a.SeriesLetter, b.SeriesLetter),
			cmp.Compare(b.ID, a.ID),
		)
	})
	if arg.Limit.Valid && int(arg.Limit.Int32) < len(out) {
		out = out[:arg.Limit.Int32]
	}
	return out, nil
}

func (s *Store) GetCaseBySlug(ctx context.Context, slug string) (repository.HotWheelsCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCaseBySlug"); err != nil {
		return repository.HotWheelsCase{}, err
	}
	for _, c := range s.data.cases {
		if c.Slug == slug {
			return c, nil
		}
	}
	return repository.HotWheelsCase{}, repository.ErrNoRows
}

func (s *Store) GetCaseByID(ctx context.Context, id int64) (repository.HotWheelsCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetCaseByID"); err != nil {
		return repository.HotWheelsCase{}, err
	}
	c, ok := s.data.cases[id]
	if !ok {
		return repository.HotWheelsCase{}, repository.ErrNoRows
	}
	return c, nil
}

func (s *Store) caseSlugTaken(slug string, excludeID int64) bool {
	for _, c := range s.data.cases {
		if c.Slug == slug && c.ID != excludeID {
			return true
		}
	}
	return false
}

func applyCaseFields(c *repository.HotWheelsCase, f repository.CaseFields) {
	c.Name = f.Name
	c.Slug = f.Slug
	c.Year = f.Year
	c.SeriesLetter = f.SeriesLetter
	c.PriceCents = f.PriceCents
	c.CarsPerCase = f.CarsPerCase
	c.Description = f.Description
	c.ImageUrl = f.ImageUrl
	c.Stock = f.Stock
	c.IsFeatured = f.IsFeatured
}

func (s *Store) CreateCase(ctx context.Context, arg repository.CreateCaseParams) (repository.HotWheelsCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateCase"); err != nil {
		return repository.HotWheelsCase{}, err
	}
	if s.caseSlugTaken(arg.Slug, 0) {
		return repository.HotWheelsCase{}, uniqueViolation("hot_wheels_cases_slug_key")
	}
	c := repository.HotWheelsCase{ID: s.data.id(), CreatedAt: s.data.now()}
	applyCaseFields(&c, arg)
	if c.CarsPerCase == 0 {
		c.CarsPerCase = 72
	}
	s.data.cases[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCase(ctx context.Context, arg repository.UpdateCaseParams) (repository.HotWheelsCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateCase"); err != nil {
		return repository.HotWheelsCase{}, err
	}
	c, ok := s.data.cases[arg.ID]
	if !ok {
		return repository.HotWheelsCase{}, repository.ErrNoRows
	}
	if s.caseSlugTaken(arg.Slug, arg.ID) {
		return repository.HotWheelsCase{}, uniqueViolation("hot_wheels_cases_slug_key")
	}
	applyCaseFields(&c, arg.CaseFields)
	s.data.cases[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCase(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteCase"); err != nil {
		return 0, err
	}
	if _, ok := s.data.cases[id]; !ok {
		return 0, nil
	}
	delete(s.data.cases, id)
	for cid, ci := range s.data.cartItems {
		if ci.CaseID.Valid && ci.CaseID.Int64 == id {
			delete(s.data.cartItems, cid)
		}
	}
	for oid, oi := range s.data.orderItems {
		if oi.CaseID.Valid && oi.CaseID.Int64 == id {
			oi.CaseID.Valid = false
			oi.CaseID.Int64 = 0
			s.data.orderItems[oid] = oi
		}
	}
	return 1, nil
}

func (s *Store) CaseSlugExists(ctx context.Context, arg repository.SlugExistsParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CaseSlugExists"); err != nil {
		return false, err
	}
	return s.caseSlugTaken(arg.Slug, arg.ExcludeID), nil
}

func (s *Store) DecrementCaseStock(ctx context.Context, arg repository.DecrementStockParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DecrementCaseStock"); err != nil {
		return 0, err
	}
	c, ok := s.data.cases[arg.ID]
	if !ok {
		return 0, nil
	}
	c.Stock = max(c.Stock-arg.Quantity, 0)
	s.data.cases[c.ID] = c
	return 1, nil
}
