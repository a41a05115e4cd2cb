// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"go.uber.org/zap"
)

// DashboardPath is where signed-in users land.
const DashboardPath = "/dashboard"

// Handler serves the root entry point and the catch-all for unknown
// paths. Neither renders a page; both only decide where to go.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends signed-in users to the dashboard and everyone else to
// the login page.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		redirect(w, r, DashboardPath)
		return
	}
	redirect(w, r, "/login")
}

// ServeNotFound redirects any unknown path to the dashboard, which in
// turn asks for a login when there is no session.
func (h *Handler) ServeNotFound(w http.ResponseWriter, r *http.Request) {
	h.Log.Debug("unknown path; redirecting to dashboard", zap.String("path", r.URL.Path))
	redirect(w, r, DashboardPath)
}

func redirect(w http.ResponseWriter, r *http.Request, dest string) {
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
