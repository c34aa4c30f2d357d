package handler

import (
	"html/template"
	"strings"
	"time"

	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/money"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": money.Format,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"stars":         stars,
		"rating": func(n int) string {
			return stars(float64(n))
		},
		"categoryLabel": categoryLabel,
		"statuses": func() []string {
			return domain.OrderStatuses
		},
		"categoryTypes": func() []string {
			return domain.CategoryTypes
		},
		"scales": func() []string {
			return domain.Scales
		},
		"selected": func(a, b string) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
		"field": func(errs map[string]string, name string) string {
			return errs[name]
		},
		// withToken pairs a card item with the page's CSRF token for
		// partials that post forms.
		"withToken": func(item any, token string) map[string]any {
			return map[string]any{"Item": item, "CSRFToken": token}
		},
		"checked": func(b bool) template.HTMLAttr {
			if b {
				return "checked"
			}
			return ""
		},
	}
}

// stars renders a 1-5 rating as filled and empty stars.
func stars(rating float64) string {
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func categoryLabel(t string) string {
	if label, ok := domain.CategoryTypeLabels[t]; ok {
		return label
	}
	return t
}
