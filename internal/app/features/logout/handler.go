package logout

import (
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"go.uber.org/zap"
)

// HookForgetter drops per-session view state. Satisfied by
// *viewmodel.Registry.
type HookForgetter interface {
	Forget(sid string)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Hooks      HookForgetter
}

func NewHandler(sessionMgr *auth.SessionManager, hooks HookForgetter, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Hooks:      hooks,
	}
}

// ServeLogout handles GET /logout. It clears the Session Store, expires
// the cookie and reloads "/", which lands on the login page.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if h.Hooks != nil {
		if sid := h.SessionMgr.SessionID(r); sid != "" {
			h.Hooks.Forget(sid)
		}
	}

	if err := h.SessionMgr.Destroy(w, r); err != nil {
		h.Log.Error("logout: destroy session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
