package storefront

import (
	"errors"
	"net/http"

	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/domain"
	"github.com/dukerupert/route66/internal/form"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/service"
)

// session starts a logged-in session for user and sets the cookie.
func session(w http.ResponseWriter, r *http.Request, users service.UserService, cookies *cookie.Config, user *domain.User) error {
	token, expiresAt, err := users.CreateSession(r.Context(), user.ID)
	if err != nil {
		return err
	}
	cookies.SetSession(w, cookie.SessionCookieName, token, expiresAt)
	return nil
}

// SignupHandler handles the signup page and form submission
type SignupHandler struct {
	userService service.UserService
	renderer    *handler.Renderer
	cookies     *cookie.Config
}

func NewSignupHandler(userService service.UserService, renderer *handler.Renderer, cookies *cookie.Config) *SignupHandler {
	return &SignupHandler{
		userService: userService,
		renderer:    renderer,
		cookies:     cookies,
	}
}

// ShowForm handles GET /signup
func (h *SignupHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	if domain.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, service.SignupForm{}, nil)
}

func (h *SignupHandler) render(w http.ResponseWriter, r *http.Request, status int, f service.SignupForm, errs map[string]string) {
	f.Password1, f.Password2 = "", ""
	h.renderer.Render(w, r, status, "signup", handler.Data{
		"Title":  "Sign Up",
		"Form":   f,
		"Errors": errs,
	})
}

// HandleSubmit handles POST /signup
func (h *SignupHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var f service.SignupForm
	if err := form.Decode(r, &f); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), f)
	if err != nil {
		if domain.IsValidationError(err) {
			h.render(w, r, http.StatusBadRequest, f, domain.GetValidationFields(err))
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	logger.Info("signup: user registered", "user_id", user.ID)

	if err := session(w, r, h.userService, h.cookies, user); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Welcome to Route66, "+user.DisplayName()+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginHandler handles the login page and form submission
type LoginHandler struct {
	userService service.UserService
	renderer    *handler.Renderer
	cookies     *cookie.Config
}

func NewLoginHandler(userService service.UserService, renderer *handler.Renderer, cookies *cookie.Config) *LoginHandler {
	return &LoginHandler{
		userService: userService,
		renderer:    renderer,
		cookies:     cookies,
	}
}

// ShowForm handles GET /login
func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	if domain.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, service.LoginForm{}, r.URL.Query().Get("return_to"), nil)
}

func (h *LoginHandler) render(w http.ResponseWriter, r *http.Request, status int, f service.LoginForm, returnTo string, errs map[string]string) {
	h.renderer.Render(w, r, status, "login", handler.Data{
		"Title":    "Log In",
		"Email":    f.Email,
		"ReturnTo": returnTo,
		"Errors":   errs,
	})
}

// HandleSubmit handles POST /login
func (h *LoginHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var f service.LoginForm
	if err := form.Decode(r, &f); err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	returnTo := r.FormValue("return_to")

	user, err := h.userService.Authenticate(r.Context(), f)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.render(w, r, http.StatusUnauthorized, f, returnTo, map[string]string{
				"__all__": "Invalid email or password. Please try again.",
			})
		case domain.IsValidationError(err):
			h.render(w, r, http.StatusBadRequest, f, returnTo, domain.GetValidationFields(err))
		default:
			h.renderer.Error(w, r, err)
		}
		return
	}

	if err := session(w, r, h.userService, h.cookies, user); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Flash(w, r, cookie.FlashSuccess, "Welcome back, "+user.DisplayName()+"! You are now logged in.")
	http.Redirect(w, r, middleware.SafeReturnTo(returnTo), http.StatusSeeOther)
}

// LogoutHandler handles user logout
type LogoutHandler struct {
	userService service.UserService
	renderer    *handler.Renderer
	cookies     *cookie.Config
}

func NewLogoutHandler(userService service.UserService, renderer *handler.Renderer, cookies *cookie.Config) *LogoutHandler {
	return &LogoutHandler{
		userService: userService,
		renderer:    renderer,
		cookies:     cookies,
	}
}

// HandleSubmit handles POST /logout
func (h *LogoutHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		if err := h.userService.DeleteSession(r.Context(), token); err != nil {
			middleware.GetLogger(r.Context()).Warn("logout: failed to delete session", "error", err)
		}
	}
	h.cookies.ClearSession(w, cookie.SessionCookieName)

	if user := domain.UserFromContext(r.Context()); user != nil {
		h.renderer.Flash(w, r, cookie.FlashInfo, "You have been logged out successfully. See you soon, "+user.DisplayName()+"!")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
