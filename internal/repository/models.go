package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

type Category struct {
	ID           int64
	Name         string
	Slug         string
	CategoryType string
	Description  string
	ImageUrl     string
}

type Brand struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	LogoUrl     string
}

type Product struct {
	ID                  int64
	Name                string
	Slug                string
	BrandID             pgtype.Int8
	CategoryID          pgtype.Int8
	Description         string
	PriceCents          int64
	SalePriceCents      pgtype.Int8
	Stock               int32
	ImageUrl            string
	Scale               string
	CarModel            string
	CarYear             pgtype.Int4
	Color               string
	Series              string
	IsTreasureHunt      bool
	IsSuperTreasureHunt bool
	IsFeatured          bool
	IsNewArrival        bool
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

type HotWheelsCase struct {
	ID           int64
	Name         string
	Slug         string
	Year         int32
	SeriesLetter string
	PriceCents   int64
	CarsPerCase  int32
	Description  string
	ImageUrl     string
	Stock        int32
	IsFeatured   bool
	CreatedAt    pgtype.Timestamptz
}

type Review struct {
	ID        int64
	ProductID int64
	UserID    int64
	Rating    int32
	Title     string
	Body      string
	CreatedAt pgtype.Timestamptz
}

type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID pgtype.Int8
	CaseID    pgtype.Int8
	Quantity  int32
	CreatedAt pgtype.Timestamptz
}

type Order struct {
	ID              int64
	UserID          int64
	Status          string
	TotalCents      int64
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	ShippingAddress string
	City            string
	State           string
	ZipCode         string
	Country         string
	Notes           string
	TrackingNumber  string
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type OrderItem struct {
	ID         int64
	OrderID    int64
	ProductID  pgtype.Int8
	CaseID     pgtype.Int8
	ItemName   string
	Quantity   int32
	PriceCents int64
}

type Wishlist struct {
	ID     int64
	UserID int64
}
