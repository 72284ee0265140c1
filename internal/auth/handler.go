package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/fkhayef/secretsanta/internal/apperr"
	"github.com/fkhayef/secretsanta/internal/user"
	"github.com/fkhayef/secretsanta/pkg/middleware"
	"github.com/fkhayef/secretsanta/pkg/response"
)

var loginSent = map[language.Tag]string{
	language.BrazilianPortuguese: "Enviamos um link de acesso para o seu e-mail.",
	language.English:             "We sent a sign-in link to your e-mail.",
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Name  string `json:"name" example:"Maria"`
	Email string `json:"email" example:"maria@example.com"`
}

// Handler handles HTTP requests for sign-in
type Handler struct {
	service       *Service
	sessionTTL    time.Duration
	secureCookie  bool
	defaultLocale language.Tag
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, sessionTTL time.Duration, secureCookie bool, defaultLocale language.Tag) *Handler {
	return &Handler{
		service:       service,
		sessionTTL:    sessionTTL,
		secureCookie:  secureCookie,
		defaultLocale: defaultLocale,
	}
}

// Routes returns the router for auth endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Get("/callback", h.Callback)
	r.Post("/logout", h.Logout)

	return r
}

// Login handles POST /auth/login
// @Summary      Request a sign-in link
// @Description  E-mails a magic link that signs the address in, registering it on first use
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.FormState
// @Failure      400 {object} response.FormState
// @Failure      500 {object} response.FormState
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	locale := apperr.ResolveLocale(r.Header.Get("Accept-Language"), h.defaultLocale)

	req, err := decodeLogin(r)
	if err != nil {
		response.Form(w, http.StatusBadRequest, false, apperr.Message(locale, apperr.CodeValidation))
		return
	}

	if err := h.service.RequestLogin(r.Context(), req.Name, req.Email); err != nil {
		if errors.Is(err, user.ErrInvalidEmail) {
			response.Form(w, http.StatusBadRequest, false, apperr.Message(locale, apperr.CodeValidation))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to send magic link", "error", err)
		response.Form(w, http.StatusInternalServerError, false, apperr.Message(locale, apperr.CodeLogin))
		return
	}

	msg, ok := loginSent[locale]
	if !ok {
		msg = loginSent[language.BrazilianPortuguese]
	}
	response.Form(w, http.StatusOK, true, msg)
}

// Callback handles GET /auth/callback
// @Summary      Complete sign-in
// @Description  Exchanges a magic-link token for a session cookie and redirects to the group list
// @Tags         auth
// @Param        token query string true "Magic-link token"
// @Success      303
// @Failure      401 {object} response.APIResponse
// @Router       /auth/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	session, _, err := h.service.ConsumeMagicLink(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrWrongPurpose) || errors.Is(err, user.ErrUserNotFound) {
			response.Unauthorized(w, "Invalid or expired link")
			return
		}
		response.InternalError(w, "Failed to sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}

// Logout handles POST /auth/logout
// @Summary      Sign out
// @Description  Clears the session cookie
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func decodeLogin(r *http.Request) (*LoginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &LoginRequest{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}, nil
}
