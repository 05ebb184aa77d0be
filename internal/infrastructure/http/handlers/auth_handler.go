package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/application/auth"
	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
	domerrors "github.com/S0l0-dev-000/SEO-Tools/internal/domain/errors"
	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	register     *auth.RegisterUser
	login        *auth.Login
	sessions     *auth.SessionManager
	me           *auth.GetCurrentUser
	secureCookie bool
	validate     *validator.Validate
	log          zerolog.Logger
}

// NewAuthHandler wires the cookie-session endpoints. secureCookie sets the
// Secure attribute (production).
func NewAuthHandler(register *auth.RegisterUser, login *auth.Login, sessions *auth.SessionManager, me *auth.GetCurrentUser, secureCookie bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register:     register,
		login:        login,
		sessions:     sessions,
		me:           me,
		secureCookie: secureCookie,
		validate:     validator.New(),
		log:          log,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,max=128"`
		Name     string `json:"name" validate:"max=100"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "Email and password (8-128 characters) are required")
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterUserInput{
		Email:    email,
		Password: password,
		Name:     SanitizeName(body.Name),
	})
	if err != nil {
		auditAuth(h.log, r, auditRegister, "", err)
		switch {
		case errors.Is(err, domerrors.ErrUserExists):
			writeErr(w, http.StatusConflict, ErrCodeConflict, "User already exists")
		case errors.Is(err, domerrors.ErrInvalidEmail):
			writeErr(w, http.StatusBadRequest, ErrCodeInvalidEmail, "Invalid email format")
		default:
			h.log.Error().Err(err).Msg("register failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	auditAuth(h.log, r, auditRegister, result.User.ID.String(), nil)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    toUserResponse(result.User),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "Email and password are required")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Email:    SanitizeEmail(body.Email),
		Password: SanitizePassword(body.Password),
	})
	if err != nil {
		auditAuth(h.log, r, auditLogin, "", err)
		var locked *auth.AccountLockedError
		switch {
		case errors.As(err, &locked):
			w.Header().Set("Retry-After", strconv.Itoa(locked.RetryAfterSeconds))
			writeErr(w, http.StatusTooManyRequests, ErrCodeAccountLocked, "Too many failed login attempts")
		case errors.Is(err, domerrors.ErrInvalidCredentials):
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid credentials")
		default:
			h.log.Error().Err(err).Msg("login failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	auditAuth(h.log, r, auditLogin, result.User.ID.String(), nil)
	h.setSessionCookie(w, result.Token, h.sessions.TTL())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    toUserResponse(result.User),
	})
}

// Logout always clears the cookie, even when there was no session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil && c.Value != "" {
		if err := h.sessions.Delete(r.Context(), c.Value); err != nil {
			h.log.Warn().Err(err).Msg("logout: delete session")
		}
	}
	h.clearSessionCookie(w)
	auditAuth(h.log, r, auditLogout, "", nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromContext(r.Context())
	if id == nil {
		writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	}
	user, err := h.me.Execute(r.Context(), *id)
	if err != nil {
		if errors.Is(err, domerrors.ErrUnauthenticated) {
			writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
			return
		}
		h.log.Error().Err(err).Msg("me failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
