package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/middleware"
)

// Data is the template context of a page. Render adds the keys every
// layout needs: User, CartCount, CSRFToken, Flashes, ShopName, Year, Path.
type Data map[string]any

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
	cookies   *cookie.Config
	shopName  string
}

// NewRenderer parses every page in fsys. Root pages share layout.html,
// pages under admin/ share admin/layout.html, and both see partials/.
func NewRenderer(fsys fs.FS, cookies *cookie.Config, shopName string) (*Renderer, error) {
	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}

	baseTmpl, err := parseBase(fsys, "layout.html", partials)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	adminBaseTmpl, err := parseBase(fsys, "admin/layout.html", partials)
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, set := range []struct {
		pattern string
		prefix  string
		base    *template.Template
	}{
		{"*.html", "", baseTmpl},
		{"admin/*.html", "admin/", adminBaseTmpl},
	} {
		pages, err := fs.Glob(fsys, set.pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob templates: %w", err)
		}

		for _, page := range pages {
			if path.Base(page) == "layout.html" {
				continue
			}

			pageTmpl, err := set.base.Clone()
			if err != nil {
				return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
			}
			if _, err := pageTmpl.ParseFS(fsys, page); err != nil {
				return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
			}

			name := strings.TrimSuffix(path.Base(page), path.Ext(page))
			templates[set.prefix+name] = pageTmpl
		}
	}

	return &Renderer{
		templates: templates,
		cookies:   cookies,
		shopName:  shopName,
	}, nil
}

func parseBase(fsys fs.FS, layout string, partials []string) (*template.Template, error) {
	files := append([]string{layout}, partials...)
	return template.New(path.Base(layout)).Funcs(TemplateFuncs()).ParseFS(fsys, files...)
}

// Render writes the named page with the given status. The page is
// rendered into a buffer first so a template failure yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data Data) {
	tmpl, ok := rd.templates[name]
	if !ok {
		InternalErrorResponse(w, r, fmt.Errorf("template %q not found", name))
		return
	}

	if data == nil {
		data = Data{}
	}
	rd.addDefaults(w, r, data)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		InternalErrorResponse(w, r, fmt.Errorf("failed to render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Page renders the named page with status 200.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data Data) {
	rd.Render(w, r, http.StatusOK, name, data)
}

// Error renders err as an error page, or as JSON for API clients.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	if acceptsJSON(r) {
		ErrorResponse(w, r, err)
		return
	}

	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	LogError(r, err, status)
	rd.Render(w, r, status, "error", Data{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": domain.ErrorMessage(err),
	})
}

// NotFound renders the 404 page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, domain.Errorf(domain.ENOTFOUND, "", "The page you were looking for doesn't exist."))
}

// Flash queues a message for the next rendered page.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, level, message string) {
	rd.cookies.SetFlash(w, r, level, message)
}

// FlashError queues the shopper-safe message of err, logging it first.
func (rd *Renderer) FlashError(w http.ResponseWriter, r *http.Request, err error) {
	LogError(r, err, ErrorCodeToHTTPStatus(domain.ErrorCode(err)))
	rd.cookies.SetFlash(w, r, cookie.FlashError, domain.ErrorMessage(err))
}

func (rd *Renderer) addDefaults(w http.ResponseWriter, r *http.Request, data Data) {
	ctx := r.Context()
	if user := domain.UserFromContext(ctx); user != nil {
		data["User"] = user
	}
	data["CartCount"] = domain.CartCountFromContext(ctx)
	data["CSRFToken"] = middleware.GetCSRFToken(ctx)
	data["Flashes"] = rd.cookies.PopFlashes(w, r)
	data["ShopName"] = rd.shopName
	data["Year"] = time.Now().Year()
	data["Path"] = r.URL.Path
}
