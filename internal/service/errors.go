package service

import (
	"github.com/dukerupert/route66/internal/domain"
)

// Catalog errors
var (
	ErrProductNotFound  = domain.Errorf(domain.ENOTFOUND, "", "Product not found")
	ErrCaseNotFound     = domain.Errorf(domain.ENOTFOUND, "", "Case not found")
	ErrCategoryNotFound = domain.Errorf(domain.ENOTFOUND, "", "Category not found")
	ErrBrandNotFound    = domain.Errorf(domain.ENOTFOUND, "", "Brand not found")
)

// Cart and checkout errors
var (
	ErrCartItemNotFound = domain.Errorf(domain.ENOTFOUND, "", "Cart item not found")
	ErrEmptyCart        = domain.Errorf(domain.EINVALID, "", "Your cart is empty!")
)

// Order errors
var (
	ErrOrderNotFound = domain.Errorf(domain.ENOTFOUND, "", "Order not found")
)

// Account errors
var (
	ErrInvalidCredentials = domain.Unauthorized("", "Invalid email or password.")
	ErrSessionNotFound    = domain.Unauthorized("", "Session not found or expired")
)
