package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/route66/internal/middleware"
)

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// redirectBack returns the shopper to the page they came from when it is
// on this site, or to fallback otherwise.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := middleware.LocalReferer(r)
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
