package domain

import "github.com/shopspring/decimal"

// Category types offered in the admin category form.
var CategoryTypes = []string{
	"diecast_164",
	"diecast_118",
	"diecast_143",
	"diecast_124",
	"hotwheels_case",
	"hotwheels_set",
	"treasure_hunt",
	"limited_edition",
	"accessories",
	"track_sets",
}

// CategoryTypeLabels maps category types to their display names.
var CategoryTypeLabels = map[string]string{
	"diecast_164":     "Diecast 1:64",
	"diecast_118":     "Diecast 1:18",
	"diecast_143":     "Diecast 1:43",
	"diecast_124":     "Diecast 1:24",
	"hotwheels_case":  "Hot Wheels Case",
	"hotwheels_set":   "Hot Wheels Set",
	"treasure_hunt":   "Treasure Hunt",
	"limited_edition": "Limited Edition",
	"accessories":     "Accessories",
	"track_sets":      "Track Sets",
}

// Scales a product may be sold in.
var Scales = []string{"1:18", "1:24", "1:43", "1:64", "N/A"}

const DefaultScale = "1:64"

func IsCategoryType(s string) bool {
	_, ok := CategoryTypeLabels[s]
	return ok
}

func IsScale(s string) bool {
	for _, sc := range Scales {
		if sc == s {
			return true
		}
	}
	return false
}

// DisplayPriceCents returns the sale price when one is set, else the list
// price. A zero sale price counts as unset.
func DisplayPriceCents(priceCents int64, salePriceCents *int64) int64 {
	if salePriceCents != nil && *salePriceCents > 0 {
		return *salePriceCents
	}
	return priceCents
}

// DiscountPercent is the truncated percentage saved by the sale price.
// It is 0 without a sale, or when the sale is not below the list price.
func DiscountPercent(priceCents int64, salePriceCents *int64) int {
	if salePriceCents == nil || *salePriceCents <= 0 || priceCents <= 0 || *salePriceCents >= priceCents {
		return 0
	}
	saved := decimal.NewFromInt(priceCents - *salePriceCents)
	pct := saved.Div(decimal.NewFromInt(priceCents)).Mul(decimal.NewFromInt(100))
	return int(pct.IntPart())
}
