// Package slug turns names into URL-safe identifiers and makes them unique
// within a table.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxAttempts bounds the suffix search in Unique.
const MaxAttempts = 1000

var ErrExhausted = errors.New("no free slug found")

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)
)

// Make lowercases s, folds accents to ASCII and joins words with hyphens.
// "Café Racer '67" becomes "cafe-racer-67".
func Make(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.ToLower(b.String())
	out = invalidChars.ReplaceAllString(out, "")
	out = separators.ReplaceAllString(out, "-")
	return strings.Trim(out, "-_")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique derives a slug from source (falling back to fallback when source
// slugifies to nothing) and appends -2, -3, ... until exists reports it free.
func Unique(ctx context.Context, source, fallback string, exists ExistsFunc) (string, error) {
	base := Make(source)
	if base == "" {
		base = Make(fallback)
	}
	if base == "" {
		return "", fmt.Errorf("cannot derive slug from %q", source)
	}

	candidate := base
	for i := 2; i <= MaxAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrExhausted
}
