package repository

import (
	"context"
)

type Querier interface {
	// Users and sessions
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionUser(ctx context.Context, token string) (User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// Categories and brands
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	GetCategoryByID(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error)
	UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error)
	DeleteCategory(ctx context.Context, id int64) (int64, error)
	CategorySlugExists(ctx context.Context, arg SlugExistsParams) (bool, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrandByID(ctx context.Context, id int64) (Brand, error)
	CreateBrand(ctx context.Context, arg CreateBrandParams) (Brand, error)
	UpdateBrand(ctx context.Context, arg UpdateBrandParams) (Brand, error)
	DeleteBrand(ctx context.Context, id int64) (int64, error)
	BrandSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error)

	// Products
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	SearchProducts(ctx context.Context, query string) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	GetProductByID(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id int64) (int64, error)
	ProductSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error)
	DecrementProductStock(ctx context.Context, arg DecrementStockParams) (int64, error)

	// Hot Wheels cases
	ListCases(ctx context.Context, arg ListCasesParams) ([]HotWheelsCase, error)
	GetCaseBySlug(ctx context.Context, slug string) (HotWheelsCase, error)
	GetCaseByID(ctx context.Context, id int64) (HotWheelsCase, error)
	CreateCase(ctx context.Context, arg CreateCaseParams) (HotWheelsCase, error)
	UpdateCase(ctx context.Context, arg UpdateCaseParams) (HotWheelsCase, error)
	DeleteCase(ctx context.Context, id int64) (int64, error)
	CaseSlugExists(ctx context.Context, arg SlugExistsParams) (bool, error)
	DecrementCaseStock(ctx context.Context, arg DecrementStockParams) (int64, error)

	// Reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)
	ListReviewsByProduct(ctx context.Context, productID int64) ([]ListReviewsByProductRow, error)
	GetProductRating(ctx context.Context, productID int64) (GetProductRatingRow, error)

	// Carts
	GetOrCreateCart(ctx context.Context, userID int64) (Cart, error)
	LockCart(ctx context.Context, id int64) (Cart, error)
	AddProductToCart(ctx context.Context, arg AddProductToCartParams) (CartItem, error)
	AddCaseToCart(ctx context.Context, arg AddCaseToCartParams) (CartItem, error)
	GetCartItemForUser(ctx context.Context, arg GetCartItemForUserParams) (CartItem, error)
	GetCartItems(ctx context.Context, cartID int64) ([]GetCartItemsRow, error)
	CountCartUnits(ctx context.Context, userID int64) (int64, error)
	UpdateCartItemQuantity(ctx context.Context, arg UpdateCartItemQuantityParams) (CartItem, error)
	DeleteCartItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context, cartID int64) error

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	UpdateOrderTotal(ctx context.Context, id int64) (int64, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]OrderItem, error)
	GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error)
	GetOrderByID(ctx context.Context, id int64) (Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]ListOrdersRow, error)
	ListOrders(ctx context.Context, arg ListOrdersParams) ([]ListOrdersRow, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)

	// Wishlists
	GetOrCreateWishlist(ctx context.Context, userID int64) (Wishlist, error)
	AddWishlistProduct(ctx context.Context, arg WishlistProductParams) (int64, error)
	RemoveWishlistProduct(ctx context.Context, arg WishlistProductParams) (int64, error)
	WishlistHasProduct(ctx context.Context, arg WishlistHasProductParams) (bool, error)
	ListWishlistProducts(ctx context.Context, userID int64) ([]Product, error)
}

var _ Querier = (*Queries)(nil)
