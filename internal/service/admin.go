package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/money"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/slug"
	"github.com/jackc/pgx/v5/pgtype"
)

// CategoryForm is the staff form for a category.
type CategoryForm struct {
	Name         string `form:"name" validate:"required,max=100"`
	Slug         string `form:"slug" validate:"max=100"`
	CategoryType string `form:"category_type" validate:"required"`
	Description  string `form:"description"`
	ImageURL     string `form:"image_url" validate:"omitempty,url,max=500"`
}

// BrandForm is the staff form for a brand.
type BrandForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Slug        string `form:"slug" validate:"max=100"`
	Description string `form:"description"`
	LogoURL     string `form:"logo_url" validate:"omitempty,url,max=500"`
}

// ProductForm is the staff form for a product. Numeric fields are kept as
// submitted and parsed by the service.
type ProductForm struct {
	Name                string `form:"name" validate:"required,max=200"`
	Slug                string `form:"slug" validate:"max=200"`
	BrandID             string `form:"brand_id"`
	CategoryID          string `form:"category_id"`
	Description         string `form:"description"`
	Price               string `form:"price" validate:"required"`
	SalePrice           string `form:"sale_price"`
	Stock               string `form:"stock" validate:"required"`
	ImageURL            string `form:"image_url" validate:"omitempty,url,max=500"`
	Scale               string `form:"scale" validate:"required"`
	CarModel            string `form:"car_model" validate:"max=100"`
	CarYear             string `form:"car_year"`
	Color               string `form:"color" validate:"max=50"`
	Series              string `form:"series" validate:"max=100"`
	IsTreasureHunt      bool   `form:"is_treasure_hunt"`
	IsSuperTreasureHunt bool   `form:"is_super_treasure_hunt"`
	IsFeatured          bool   `form:"is_featured"`
	IsNewArrival        bool   `form:"is_new_arrival"`
}

// CaseForm is the staff form for a Hot Wheels case.
type CaseForm struct {
	Name         string `form:"name" validate:"required,max=200"`
	Slug         string `form:"slug" validate:"max=200"`
	Year         string `form:"year" validate:"required"`
	SeriesLetter string `form:"series_letter" validate:"required,max=1"`
	Price        string `form:"price" validate:"required"`
	CarsPerCase  string `form:"cars_per_case"`
	Description  string `form:"description"`
	ImageURL     string `form:"image_url" validate:"omitempty,url,max=500"`
	Stock        string `form:"stock" validate:"required"`
	IsFeatured   bool   `form:"is_featured"`
}

// AdminCatalogService is the staff side of the catalog. Slugs are derived
// from the name when blank and suffixed -2, -3, ... until unique.
type AdminCatalogService interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, f CategoryForm) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, f CategoryForm) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrand(ctx context.Context, id int64) (*Brand, error)
	CreateBrand(ctx context.Context, f BrandForm) (*Brand, error)
	UpdateBrand(ctx context.Context, id int64, f BrandForm) (*Brand, error)
	DeleteBrand(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, query string) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, f ProductForm) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, f ProductForm) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCases(ctx context.Context) ([]Case, error)
	GetCase(ctx context.Context, id int64) (*Case, error)
	CreateCase(ctx context.Context, f CaseForm) (*Case, error)
	UpdateCase(ctx context.Context, id int64, f CaseForm) (*Case, error)
	DeleteCase(ctx context.Context, id int64) error
}

type adminCatalogService struct {
	repo repository.Querier
}

// NewAdminCatalogService creates a new AdminCatalogService instance
func NewAdminCatalogService(repo repository.Querier) AdminCatalogService {
	return &adminCatalogService{repo: repo}
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func (s *adminCatalogService) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categoriesFromRows(rows), nil
}

func (s *adminCatalogService) GetCategory(ctx context.Context, id int64) (*Category, error) {
	row, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	c := categoryFromRow(row)
	return &c, nil
}

func (s *adminCatalogService) CreateCategory(ctx context.Context, f CategoryForm) (*Category, error) {
	return s.saveCategory(ctx, 0, f)
}

func (s *adminCatalogService) UpdateCategory(ctx context.Context, id int64, f CategoryForm) (*Category, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, id, f)
}

func (s *adminCatalogService) saveCategory(ctx context.Context, id int64, f CategoryForm) (*Category, error) {
	const op = "admin.SaveCategory"

	trim(&f.Name, &f.Slug, &f.CategoryType, &f.Description, &f.ImageURL)
	errs := fieldErrors{err: form.Validate(op, f)}
	if f.CategoryType != "" && !domain.IsCategoryType(f.CategoryType) {
		errs.add("category_type", "Select a valid choice.")
	}
	if err := errs.result(); err != nil {
		return nil, err
	}

	assigned, err := slug.Unique(ctx, firstNonEmpty(f.Slug, f.Name), "category", func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.CategorySlugExists(ctx, repository.SlugExistsParams{Slug: candidate, ExcludeID: id})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign category slug: %w", err)
	}

	var row repository.Category
	if id == 0 {
		row, err = s.repo.CreateCategory(ctx, repository.CreateCategoryParams{
			Name:         f.Name,
			Slug:         assigned,
			CategoryType: f.CategoryType,
			Description:  f.Description,
			ImageUrl:     f.ImageURL,
		})
	} else {
		row, err = s.repo.UpdateCategory(ctx, repository.UpdateCategoryParams{
			ID:           id,
			Name:         f.Name,
			Slug:         assigned,
			CategoryType: f.CategoryType,
			Description:  f.Description,
			ImageUrl:     f.ImageURL,
		})
	}
	if err != nil {
		return nil, saveError(op, "category", err)
	}

	c := categoryFromRow(row)
	return &c, nil
}

func (s *adminCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Brands
// ---------------------------------------------------------------------------

func (s *adminCatalogService) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brandsFromRows(rows), nil
}

func (s *adminCatalogService) GetBrand(ctx context.Context, id int64) (*Brand, error) {
	row, err := s.repo.GetBrandByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	b := brandFromRow(row)
	return &b, nil
}

func (s *adminCatalogService) CreateBrand(ctx context.Context, f BrandForm) (*Brand, error) {
	return s.saveBrand(ctx, 0, f)
}

func (s *adminCatalogService) UpdateBrand(ctx context.Context, id int64, f BrandForm) (*Brand, error) {
	if _, err := s.GetBrand(ctx, id); err != nil {
		return nil, err
	}
	return s.saveBrand(ctx, id, f)
}

func (s *adminCatalogService) saveBrand(ctx context.Context, id int64, f BrandForm) (*Brand, error) {
	const op = "admin.SaveBrand"

	trim(&f.Name, &f.Slug, &f.Description, &f.LogoURL)
	if err := form.Validate(op, f); err != nil {
		return nil, err
	}

	assigned, err := slug.Unique(ctx, firstNonEmpty(f.Slug, f.Name), "brand", func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.BrandSlugExists(ctx, repository.SlugExistsParams{Slug: candidate, ExcludeID: id})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign brand slug: %w", err)
	}

	var row repository.Brand
	if id == 0 {
		row, err = s.repo.CreateBrand(ctx, repository.CreateBrandParams{
			Name:        f.Name,
			Slug:        assigned,
			Description: f.Description,
			LogoUrl:     f.LogoURL,
		})
	} else {
		row, err = s.repo.UpdateBrand(ctx, repository.UpdateBrandParams{
			ID:          id,
			Name:        f.Name,
			Slug:        assigned,
			Description: f.Description,
			LogoUrl:     f.LogoURL,
		})
	}
	if err != nil {
		return nil, saveError(op, "brand", err)
	}

	b := brandFromRow(row)
	return &b, nil
}

func (s *adminCatalogService) DeleteBrand(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteBrand(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	if n == 0 {
		return ErrBrandNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ListProducts returns every product, in stock or not, newest first.
func (s *adminCatalogService) ListProducts(ctx context.Context, query string) ([]Product, error) {
	rows, err := s.repo.ListProducts(ctx, repository.ListProductsParams{
		Query:  text(query),
		SortBy: repository.SortNewest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return productsFromRows(rows), nil
}

func (s *adminCatalogService) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p := productFromRow(row)
	return &p, nil
}

func (s *adminCatalogService) CreateProduct(ctx context.Context, f ProductForm) (*Product, error) {
	return s.saveProduct(ctx, 0, f)
}

func (s *adminCatalogService) UpdateProduct(ctx context.Context, id int64, f ProductForm) (*Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	return s.saveProduct(ctx, id, f)
}

func (s *adminCatalogService) saveProduct(ctx context.Context, id int64, f ProductForm) (*Product, error) {
	const op = "admin.SaveProduct"

	trim(&f.Name, &f.Slug, &f.BrandID, &f.CategoryID, &f.Description, &f.Price, &f.SalePrice,
		&f.Stock, &f.ImageURL, &f.Scale, &f.CarModel, &f.CarYear, &f.Color, &f.Series)
	if f.Scale == "" {
		f.Scale = domain.DefaultScale
	}

	errs := fieldErrors{err: form.Validate(op, f)}
	fields := repository.ProductFields{
		Name:                f.Name,
		Description:         f.Description,
		ImageUrl:            f.ImageURL,
		Scale:               f.Scale,
		CarModel:            f.CarModel,
		Color:               f.Color,
		Series:              f.Series,
		IsTreasureHunt:      f.IsTreasureHunt,
		IsSuperTreasureHunt: f.IsSuperTreasureHunt,
		IsFeatured:          f.IsFeatured,
		IsNewArrival:        f.IsNewArrival,
	}

	if !domain.IsScale(f.Scale) {
		errs.add("scale", "Select a valid choice.")
	}
	fields.PriceCents = errs.price("price", f.Price)
	if f.SalePrice != "" {
		if sale := errs.price("sale_price", f.SalePrice); sale > 0 {
			fields.SalePriceCents = pgtype.Int8{Int64: sale, Valid: true}
			if fields.PriceCents > 0 && sale >= fields.PriceCents {
				errs.add("sale_price", "Sale price must be lower than the price.")
			}
		}
	}
	fields.Stock = errs.count("stock", f.Stock)
	if f.CarYear != "" {
		year := errs.count("car_year", f.CarYear)
		if year != 0 && (year < 1900 || year > 2100) {
			errs.add("car_year", "Enter a year between 1900 and 2100.")
		}
		fields.CarYear = pgtype.Int4{Int32: year, Valid: year != 0}
	}

	var err error
	if fields.BrandID, err = refID(ctx, &errs, "brand_id", f.BrandID, s.repo.GetBrandByID); err != nil {
		return nil, err
	}
	if fields.CategoryID, err = refID(ctx, &errs, "category_id", f.CategoryID, s.repo.GetCategoryByID); err != nil {
		return nil, err
	}

	if err := errs.result(); err != nil {
		return nil, err
	}

	fields.Slug, err = slug.Unique(ctx, firstNonEmpty(f.Slug, f.Name), "product", func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.ProductSlugExists(ctx, repository.SlugExistsParams{Slug: candidate, ExcludeID: id})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign product slug: %w", err)
	}

	var row repository.Product
	if id == 0 {
		row, err = s.repo.CreateProduct(ctx, fields)
	} else {
		row, err = s.repo.UpdateProduct(ctx, repository.UpdateProductParams{ID: id, ProductFields: fields})
	}
	if err != nil {
		return nil, saveError(op, "product", err)
	}

	p := productFromRow(row)
	return &p, nil
}

func (s *adminCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Cases
// ---------------------------------------------------------------------------

func (s *adminCatalogService) ListCases(ctx context.Context) ([]Case, error) {
	rows, err := s.repo.ListCases(ctx, repository.ListCasesParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return casesFromRows(rows), nil
}

func (s *adminCatalogService) GetCase(ctx context.Context, id int64) (*Case, error) {
	row, err := s.repo.GetCaseByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	c := caseFromRow(row)
	return &c, nil
}

func (s *adminCatalogService) CreateCase(ctx context.Context, f CaseForm) (*Case, error) {
	return s.saveCase(ctx, 0, f)
}

func (s *adminCatalogService) UpdateCase(ctx context.Context, id int64, f CaseForm) (*Case, error) {
	if _, err := s.GetCase(ctx, id); err != nil {
		return nil, err
	}
	return s.saveCase(ctx, id, f)
}

func (s *adminCatalogService) saveCase(ctx context.Context, id int64, f CaseForm) (*Case, error) {
	const op = "admin.SaveCase"

	trim(&f.Name, &f.Slug, &f.Year, &f.SeriesLetter, &f.Price, &f.CarsPerCase,
		&f.Description, &f.ImageURL, &f.Stock)
	f.SeriesLetter = strings.ToUpper(f.SeriesLetter)
	if f.CarsPerCase == "" {
		f.CarsPerCase = "72"
	}

	errs := fieldErrors{err: form.Validate(op, f)}
	fields := repository.CaseFields{
		Name:         f.Name,
		SeriesLetter: f.SeriesLetter,
		Description:  f.Description,
		ImageUrl:     f.ImageURL,
		IsFeatured:   f.IsFeatured,
	}
	fields.Year = errs.count("year", f.Year)
	if fields.Year != 0 && (fields.Year < 1968 || fields.Year > 2100) {
		errs.add("year", "Enter a year between 1968 and 2100.")
	}
	fields.PriceCents = errs.price("price", f.Price)
	fields.CarsPerCase = errs.count("cars_per_case", f.CarsPerCase)
	if fields.CarsPerCase == 0 {
		errs.add("cars_per_case", "Ensure this value is greater than or equal to 1.")
	}
	fields.Stock = errs.count("stock", f.Stock)

	if err := errs.result(); err != nil {
		return nil, err
	}

	var err error
	fields.Slug, err = slug.Unique(ctx, firstNonEmpty(f.Slug, f.Name), "case", func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.CaseSlugExists(ctx, repository.SlugExistsParams{Slug: candidate, ExcludeID: id})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign case slug: %w", err)
	}

	var row repository.HotWheelsCase
	if id == 0 {
		row, err = s.repo.CreateCase(ctx, fields)
	} else {
		row, err = s.repo.UpdateCase(ctx, repository.UpdateCaseParams{ID: id, CaseFields: fields})
	}
	if err != nil {
		return nil, saveError(op, "case", err)
	}

	c := caseFromRow(row)
	return &c, nil
}

func (s *adminCatalogService) DeleteCase(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteCase(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete case: %w", err)
	}
	if n == 0 {
		return ErrCaseNotFound
	}
	return nil
}

// refID parses an optional foreign key field and checks the referenced row
// exists. A blank value is NULL.
func refID[T any](ctx context.Context, errs *fieldErrors, field, raw string, get func(context.Context, int64) (T, error)) (pgtype.Int8, error) {
	if raw == "" {
		return pgtype.Int8{}, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errs.add(field, "Select a valid choice.")
		return pgtype.Int8{}, nil
	}
	if _, err := get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			errs.add(field, "Select a valid choice.")
			return pgtype.Int8{}, nil
		}
		return pgtype.Int8{}, fmt.Errorf("failed to look up %s: %w", field, err)
	}
	return pgtype.Int8{Int64: id, Valid: true}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fieldErrors accumulates form errors, keeping the first message per field.
type fieldErrors struct {
	err error
}

func (e *fieldErrors) add(field, message string) {
	if _, exists := domain.GetValidationFields(e.err)[field]; exists {
		return
	}
	e.err = domain.AddFieldError(e.err, field, message)
}

func (e *fieldErrors) result() error {
	return e.err
}

// price parses a decimal amount into cents. Blank values are left to the
// required tag.
func (e *fieldErrors) price(field, raw string) int64 {
	if raw == "" {
		return 0
	}
	cents, err := money.ParseCents(raw)
	if err != nil {
		if errors.Is(err, money.ErrNegativeAmount) {
			e.add(field, "Ensure this value is greater than or equal to 0.")
		} else {
			e.add(field, "Enter a number.")
		}
		return 0
	}
	return cents
}

// count parses a non-negative whole number.
func (e *fieldErrors) count(field, raw string) int32 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		e.add(field, "Enter a whole number.")
		return 0
	}
	if n < 0 {
		e.add(field, "Ensure this value is greater than or equal to 0.")
		return 0
	}
	return int32(n)
}

func saveError(op, resource string, err error) error {
	if repository.IsUniqueViolation(err) {
		return domain.NewValidationError(op, "slug", fmt.Sprintf("A %s with this slug already exists.", resource))
	}
	return fmt.Errorf("failed to save %s: %w", resource, err)
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NewCategoryForm pre-fills the edit form from c.
func NewCategoryForm(c *Category) CategoryForm {
	return CategoryForm{
		Name:         c.Name,
		Slug:         c.Slug,
		CategoryType: c.CategoryType,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
	}
}

func NewBrandForm(b *Brand) BrandForm {
	return BrandForm{
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
	}
}

// NewProductForm pre-fills the edit form from p. Amounts are shown as
// decimals and unset references as blanks.
func NewProductForm(p *Product) ProductForm {
	f := ProductForm{
		Name:                p.Name,
		Slug:                p.Slug,
		Description:         p.Description,
		Price:               money.Format(p.PriceCents),
		Stock:               strconv.Itoa(int(p.Stock)),
		ImageURL:            p.ImageURL,
		Scale:               p.Scale,
		CarModel:            p.CarModel,
		Color:               p.Color,
		Series:              p.Series,
		IsTreasureHunt:      p.IsTreasureHunt,
		IsSuperTreasureHunt: p.IsSuperTreasureHunt,
		IsFeatured:          p.IsFeatured,
		IsNewArrival:        p.IsNewArrival,
	}
	if p.BrandID != 0 {
		f.BrandID = strconv.FormatInt(p.BrandID, 10)
	}
	if p.CategoryID != 0 {
		f.CategoryID = strconv.FormatInt(p.CategoryID, 10)
	}
	if p.SalePriceCents != nil {
		f.SalePrice = money.Format(*p.SalePriceCents)
	}
	if p.CarYear != 0 {
		f.CarYear = strconv.Itoa(int(p.CarYear))
	}
	return f
}

func NewCaseForm(c *Case) CaseForm {
	return CaseForm{
		Name:         c.Name,
		Slug:         c.Slug,
		Year:         strconv.Itoa(int(c.Year)),
		SeriesLetter: c.SeriesLetter,
		Price:        money.Format(c.PriceCents),
		CarsPerCase:  strconv.Itoa(int(c.CarsPerCase)),
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		Stock:        strconv.Itoa(int(c.Stock)),
		IsFeatured:   c.IsFeatured,
	}
}
