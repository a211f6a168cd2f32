package handler

import (
	"net/http"
	"time"

	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *service.AuthService
	cookieName   string
	cookieSecure bool
}

// AuthHandlerConfig holds configuration for the auth handler
type AuthHandlerConfig struct {
	AuthService  *service.AuthService
	CookieName   string // defaults to middleware.SessionCookie
	CookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	name := cfg.CookieName
	if name == "" {
		name = middleware.SessionCookie
	}
	return &AuthHandler{
		authService:  cfg.AuthService,
		cookieName:   name,
		cookieSecure: cfg.CookieSecure,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "user", err))
		return
	}

	h.setSession(w, result.AccessToken)
	WriteData(w, http.StatusCreated, result)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "user", err))
		return
	}

	h.setSession(w, result.AccessToken)
	WriteData(w, http.StatusOK, result)
}

// Logout handles POST /v1/auth/logout. Tokens are stateless, so logging out
// only clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	WriteNoContent(w)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		WriteError(w, MapServiceError(r.Context(), "user", err))
		return
	}

	WriteData(w, http.StatusOK, user)
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string) {
	ttl := h.authService.TokenTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
