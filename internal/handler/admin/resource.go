package admin

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/handler"
)

// Resource serves list, create, edit and delete pages for one catalog
// table. T is the record type and F its form.
type Resource[T any, F any] struct {
	// Path is the URL segment under /admin, e.g. "products".
	Path string
	// Singular names one record in flashes and titles, e.g. "Product".
	Singular string
	// Plural titles the list page.
	Plural string

	List   func(ctx context.Context, r *http.Request) ([]T, error)
	Get    func(ctx context.Context, id int64) (*T, error)
	Create func(ctx context.Context, f F) (*T, error)
	Update func(ctx context.Context, id int64, f F) (*T, error)
	Delete func(ctx context.Context, id int64) error

	// Blank returns the form for a new record.
	Blank func() F
	// Fill returns the edit form for an existing record.
	Fill func(*T) F
	// Options adds select choices the form page needs. May be nil.
	Options func(ctx context.Context) (handler.Data, error)

	Renderer *handler.Renderer
}

func (res *Resource[T, F]) base() string { return "/admin/" + res.Path }

// Index handles GET /admin/{resource}
func (res *Resource[T, F]) Index(w http.ResponseWriter, r *http.Request) {
	items, err := res.List(r.Context(), r)
	if err != nil {
		res.Renderer.Error(w, r, err)
		return
	}

	res.Renderer.Page(w, r, "admin/"+res.Path, handler.Data{
		"Title": res.Plural,
		"Items": items,
		"Query": r.URL.Query().Get("q"),
	})
}

// New handles GET /admin/{resource}/new
func (res *Resource[T, F]) New(w http.ResponseWriter, r *http.Request) {
	res.renderForm(w, r, http.StatusOK, 0, res.Blank(), nil)
}

// CreateSubmit handles POST /admin/{resource}/new
func (res *Resource[T, F]) CreateSubmit(w http.ResponseWriter, r *http.Request) {
	var f F
	if err := form.Decode(r, &f); err != nil {
		res.Renderer.Error(w, r, err)
		return
	}

	if _, err := res.Create(r.Context(), f); err != nil {
		res.formError(w, r, 0, f, err)
		return
	}

	res.Renderer.Flash(w, r, cookie.FlashSuccess, res.Singular+" created.")
	http.Redirect(w, r, res.base(), http.StatusSeeOther)
}

// Edit handles GET /admin/{resource}/{id}/edit
func (res *Resource[T, F]) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		res.Renderer.NotFound(w, r)
		return
	}

	item, err := res.Get(r.Context(), id)
	if err != nil {
		res.Renderer.Error(w, r, err)
		return
	}

	res.renderForm(w, r, http.StatusOK, id, res.Fill(item), nil)
}

// UpdateSubmit handles POST /admin/{resource}/{id}/edit
func (res *Resource[T, F]) UpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		res.Renderer.NotFound(w, r)
		return
	}

	var f F
	if err := form.Decode(r, &f); err != nil {
		res.Renderer.Error(w, r, err)
		return
	}

	if _, err := res.Update(r.Context(), id, f); err != nil {
		res.formError(w, r, id, f, err)
		return
	}

	res.Renderer.Flash(w, r, cookie.FlashSuccess, res.Singular+" saved.")
	http.Redirect(w, r, res.base(), http.StatusSeeOther)
}

// DeleteSubmit handles POST /admin/{resource}/{id}/delete
func (res *Resource[T, F]) DeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		res.Renderer.NotFound(w, r)
		return
	}

	if err := res.Delete(r.Context(), id); err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			res.Renderer.Error(w, r, err)
			return
		}
		res.Renderer.FlashError(w, r, err)
		http.Redirect(w, r, res.base(), http.StatusSeeOther)
		return
	}

	res.Renderer.Flash(w, r, cookie.FlashSuccess, res.Singular+" deleted.")
	http.Redirect(w, r, res.base(), http.StatusSeeOther)
}

func (res *Resource[T, F]) formError(w http.ResponseWriter, r *http.Request, id int64, f F, err error) {
	if domain.IsValidationError(err) {
		res.renderForm(w, r, http.StatusBadRequest, id, f, domain.GetValidationFields(err))
		return
	}
	res.Renderer.Error(w, r, err)
}

func (res *Resource[T, F]) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, f F, errs map[string]string) {
	data := handler.Data{}
	if res.Options != nil {
		options, err := res.Options(r.Context())
		if err != nil {
			res.Renderer.Error(w, r, err)
			return
		}
		for k, v := range options {
			data[k] = v
		}
	}

	action := res.base() + "/new"
	title := "New " + res.Singular
	if id != 0 {
		action = res.base() + "/" + strconv.FormatInt(id, 10) + "/edit"
		title = "Edit " + res.Singular
	}

	data["Title"] = title
	data["ID"] = id
	data["Action"] = action
	data["Form"] = f
	data["Errors"] = errs
	res.Renderer.Render(w, r, status, "admin/"+res.formTemplate(), data)
}

// formTemplate maps "categories" to "category_form".
func (res *Resource[T, F]) formTemplate() string {
	switch res.Path {
	case "categories":
		return "category_form"
	default:
		return res.Path[:len(res.Path)-1] + "_form"
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
