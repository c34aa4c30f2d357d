// Package money converts between integer cents and decimal strings.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("enter a valid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

var hundred = decimal.NewFromInt(100)

// ParseCents parses a decimal amount such as "19.99" into cents, rounding
// half away from zero to the nearest cent.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// Decimal returns cents as a two-place decimal.
func Decimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as "12.50".
func Format(cents int64) string {
	return Decimal(cents).StringFixed(2)
}

// Multiply returns unit × quantity in cents.
func Multiply(unitCents int64, quantity int32) int64 {
	return decimal.NewFromInt(unitCents).Mul(decimal.NewFromInt32(quantity)).IntPart()
}
