package admin

import (
	"context"
	"net/http"

	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/service"
)

// Catalog holds the staff pages for every catalog table.
type Catalog struct {
	Categories *Resource[service.Category, service.CategoryForm]
	Brands     *Resource[service.Brand, service.BrandForm]
	Products   *Resource[service.Product, service.ProductForm]
	Cases      *Resource[service.Case, service.CaseForm]
}

func NewCatalog(svc service.AdminCatalogService, renderer *handler.Renderer) *Catalog {
	return &Catalog{
		Categories: &Resource[service.Category, service.CategoryForm]{
			Path:     "categories",
			Singular: "Category",
			Plural:   "Categories",
			List: func(ctx context.Context, _ *http.Request) ([]service.Category, error) {
				return svc.ListCategories(ctx)
			},
			Get:      svc.GetCategory,
			Create:   svc.CreateCategory,
			Update:   svc.UpdateCategory,
			Delete:   svc.DeleteCategory,
			Blank:    func() service.CategoryForm { return service.CategoryForm{} },
			Fill:     service.NewCategoryForm,
			Renderer: renderer,
		},
		Brands: &Resource[service.Brand, service.BrandForm]{
			Path:     "brands",
			Singular: "Brand",
			Plural:   "Brands",
			List: func(ctx context.Context, _ *http.Request) ([]service.Brand, error) {
				return svc.ListBrands(ctx)
			},
			Get:      svc.GetBrand,
			Create:   svc.CreateBrand,
			Update:   svc.UpdateBrand,
			Delete:   svc.DeleteBrand,
			Blank:    func() service.BrandForm { return service.BrandForm{} },
			Fill:     service.NewBrandForm,
			Renderer: renderer,
		},
		Products: &Resource[service.Product, service.ProductForm]{
			Path:     "products",
			Singular: "Product",
			Plural:   "Products",
			List: func(ctx context.Context, r *http.Request) ([]service.Product, error) {
				return svc.ListProducts(ctx, r.URL.Query().Get("q"))
			},
			Get:    svc.GetProduct,
			Create: svc.CreateProduct,
			Update: svc.UpdateProduct,
			Delete: svc.DeleteProduct,
			Blank: func() service.ProductForm {
				return service.ProductForm{Scale: "1:64", Stock: "0"}
			},
			Fill: service.NewProductForm,
			Options: func(ctx context.Context) (handler.Data, error) {
				categories, err := svc.ListCategories(ctx)
				if err != nil {
					return nil, err
				}
				brands, err := svc.ListBrands(ctx)
				if err != nil {
					return nil, err
				}
				return handler.Data{"Categories": categories, "Brands": brands}, nil
			},
			Renderer: renderer,
		},
		Cases: &Resource[service.Case, service.CaseForm]{
			Path:     "cases",
			Singular: "Case",
			Plural:   "Hot Wheels Cases",
			List: func(ctx context.Context, _ *http.Request) ([]service.Case, error) {
				return svc.ListCases(ctx)
			},
			Get:    svc.GetCase,
			Create: svc.CreateCase,
			Update: svc.UpdateCase,
			Delete: svc.DeleteCase,
			Blank: func() service.CaseForm {
				return service.CaseForm{CarsPerCase: "72", Stock: "0"}
			},
			Fill:     service.NewCaseForm,
			Renderer: renderer,
		},
	}
}
