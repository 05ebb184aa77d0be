package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/S0l0-dev-000/SEO-Tools/internal/domain"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth-token"

// SessionValidator resolves a token to an identity; nil means no session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) *domain.Identity
}

// SessionAuth reads the auth-token cookie and puts the identity in context.
type SessionAuth struct {
	sessions SessionValidator
}

func NewSessionAuth(sessions SessionValidator) *SessionAuth {
	return &SessionAuth{sessions: sessions}
}

// Require rejects requests without a valid session with 401.
func (m *SessionAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.resolve(r)
		if id == nil {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the identity when there is one and never rejects.
func (m *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := m.resolve(r); id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionAuth) resolve(r *http.Request) *domain.Identity {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	return m.sessions.Validate(r.Context(), c.Value)
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
