package handlers

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/S0l0-dev-000/SEO-Tools/internal/infrastructure/http/middleware"
)

// Auth actions recorded by auditAuth. The metric label drops the "auth." prefix.
const (
	auditRegister = "register"
	auditLogin    = "login"
	auditLogout   = "logout"
)

// auditAuth writes one "auth_audit" line per register, login or logout and
// counts register/login outcomes. RemoteAddr is already the client address
// once chi's RealIP has run.
func auditAuth(log zerolog.Logger, r *http.Request, action, userID string, err error) {
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Str("error", err.Error())
	}
	ev.Str("event", "auth."+action).
		Str("user_id", userID).
		Str("ip", r.RemoteAddr).
		Str("request_id", chimid.GetReqID(r.Context())).
		Bool("success", err == nil).
		Msg("auth_audit")

	if action != auditLogout {
		middleware.RecordAuthAttempt(action, err == nil)
	}
}
