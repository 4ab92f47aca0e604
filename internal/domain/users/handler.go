package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pet-tag/internal/middleware"
	"pet-tag/internal/platform/logger"
	"pet-tag/internal/ports/auth"
)

type HandlerOptions struct {
	Sessions      auth.SessionIssuer
	Provider      auth.IdentityProvider // nil => sin Google
	SecureCookies bool
	Log           logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	h := &authHandler{
		svc:      svc,
		sessions: opts.Sessions,
		provider: opts.Provider,
		jar:      cookieJar{secure: opts.SecureCookies},
		log:      opts.Log,
	}
	if h.log == nil {
		h.log = logger.Nop()
	}

	r.Get("/login", loginPageHandler(h.googleEnabled()))

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", h.signUp)
		ar.Post("/signin", h.signIn)
		ar.Post("/signout", h.signOut)
		ar.Get("/oauth/google/start", h.googleStart)
		ar.Get("/callback", h.callback)
		ar.Get("/redirect", h.redirect)
	})
}

type authHandler struct {
	svc      *Service
	sessions auth.SessionIssuer
	provider auth.IdentityProvider
	jar      cookieJar
	log      logger.Logger
}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse devuelve el token y a dónde ir después del login.
type sessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Next      string    `json:"next"`
}

func (h *authHandler) googleEnabled() bool {
	return h.provider != nil && h.provider.IsConfigured()
}

// signUp godoc
// @Summary Registro con email y password
// @Description Acepta JSON o un form HTML (en ese caso redirige). Password mínimo 8 caracteres.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signUpRequest true "Credenciales"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / passwords do not match / password too short"
// @Failure 409 {string} string "email already registered"
// @Router /auth/signup [post]
func (h *authHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	form := isForm(r)
	if form {
		req = signUpRequest{
			Email:           r.PostFormValue("email"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	u, err := h.svc.SignUp(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		if form {
			redirectLogin(w, r, "signup", errMessage(err))
			return
		}
		h.writeServiceError(w, err)
		return
	}

	// Un alta nueva siempre va al wizard.
	h.startSession(w, r, u, PathRegister, http.StatusCreated, form)
}

// signIn godoc
// @Summary Login con email y password
// @Description next = /dashboard si el usuario ya tiene mascotas, si no /register.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signInRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/signin [post]
func (h *authHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	form := isForm(r)
	if form {
		req = signInRequest{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	u, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if form {
			redirectLogin(w, r, "signin", errMessage(err))
			return
		}
		h.writeServiceError(w, err)
		return
	}

	next, err := h.svc.NextPath(r.Context(), u.ID, IntentLogin)
	if err != nil {
		h.log.Error("next path failed", map[string]any{"user_id": u.ID, "err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.startSession(w, r, u, next, http.StatusOK, form)
}

// signOut godoc
// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Router /auth/signout [post]
func (h *authHandler) signOut(w http.ResponseWriter, r *http.Request) {
	h.jar.clear(w, middleware.SessionCookie)
	h.jar.clear(w, CookieIntent)
	w.WriteHeader(http.StatusNoContent)
}

// googleStart godoc
// @Summary Iniciar login con Google
// @Description Guarda el intent (register|login) y el state anti-CSRF en cookies y redirige a Google.
// @Tags auth
// @Param mode query string false "signin | signup"
// @Success 302
// @Failure 503 {string} string "google sign-in not configured"
// @Router /auth/oauth/google/start [get]
func (h *authHandler) googleStart(w http.ResponseWriter, r *http.Request) {
	if !h.googleEnabled() {
		http.Error(w, "google sign-in not configured", http.StatusServiceUnavailable)
		return
	}

	intent := IntentLogin
	if r.URL.Query().Get("mode") == "signup" {
		intent = IntentRegister
	}
	state := uuid.NewString()

	h.jar.setShort(w, CookieIntent, string(intent))
	h.jar.setShort(w, CookieOAuthState, state)
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// callback godoc
// @Summary Callback OAuth
// @Description Canjea el code, crea/vincula el usuario, setea la cookie de sesión y redirige a next (default /auth/redirect).
// @Tags auth
// @Param code query string false "Authorization code"
// @Param state query string false "State anti-CSRF"
// @Param next query string false "Path relativo de destino"
// @Param error_description query string false "Error del proveedor"
// @Success 302
// @Router /auth/callback [get]
func (h *authHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if desc := q.Get("error_description"); desc != "" {
		redirectLogin(w, r, "", desc)
		return
	}

	code := q.Get("code")
	if code == "" {
		redirectLogin(w, r, "", "No authentication code provided")
		return
	}

	want := cookieValue(r, CookieOAuthState)
	h.jar.clear(w, CookieOAuthState)
	if want == "" || q.Get("state") != want {
		redirectLogin(w, r, "", "Invalid authentication state")
		return
	}

	if !h.googleEnabled() {
		redirectLogin(w, r, "", "Could not authenticate user")
		return
	}

	ident, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("oauth exchange failed", map[string]any{"err": err})
		redirectLogin(w, r, "", "Could not authenticate user")
		return
	}

	u, err := h.svc.UpsertExternal(r.Context(), ident)
	if err != nil {
		h.log.Error("oauth upsert failed", map[string]any{"err": err})
		redirectLogin(w, r, "", "Could not authenticate user")
		return
	}

	token, exp, err := h.sessions.Issue(u.ID, u.Email)
	if err != nil {
		h.log.Error("issue session failed", map[string]any{"user_id": u.ID, "err": err})
		redirectLogin(w, r, "", "Could not authenticate user")
		return
	}
	h.jar.setSession(w, token, exp)

	http.Redirect(w, r, safeNext(q.Get("next"), PathRedirect), http.StatusFound)
}

// redirect godoc
// @Summary Ruteo post-autenticación
// @Description Lee y borra el intent: register => /register; si no, /dashboard si hay mascotas, si no /register.
// @Tags auth
// @Success 302
// @Router /auth/redirect [get]
func (h *authHandler) redirect(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		redirectLogin(w, r, "", "Session not found")
		return
	}

	intent := Intent(cookieValue(r, CookieIntent))
	h.jar.clear(w, CookieIntent)

	next, err := h.svc.NextPath(r.Context(), claims.UserID, intent)
	if err != nil {
		h.log.Error("next path failed", map[string]any{"user_id": claims.UserID, "err": err})
		redirectLogin(w, r, "", "Authentication error")
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (h *authHandler) startSession(w http.ResponseWriter, r *http.Request, u User, next string, status int, form bool) {
	token, exp, err := h.sessions.Issue(u.ID, u.Email)
	if err != nil {
		h.log.Error("issue session failed", map[string]any{"user_id": u.ID, "err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.jar.setSession(w, token, exp)

	if form {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	writeJSON(w, status, sessionResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Token:     token,
		ExpiresAt: exp,
		Next:      next,
	})
}

func (h *authHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrWeakPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		h.log.Error("auth error", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func errMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, ErrWeakPassword), errors.Is(err, ErrConflict), errors.Is(err, ErrUnauthorized):
		return err.Error()
	}
	return "Authentication error"
}

func redirectLogin(w http.ResponseWriter, r *http.Request, mode, message string) {
	v := url.Values{}
	if mode != "" {
		v.Set("mode", mode)
	}
	if message != "" {
		v.Set("message", message)
	}
	target := PathLogin
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// safeNext solo acepta paths relativos del mismo origen.
func safeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
