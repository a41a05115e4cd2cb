// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard page and its panel partials. Every
// route requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/metrics", h.ServeMetrics)
		pr.Get("/charts", h.ServeCharts)
		pr.Get("/activity", h.ServeActivity)
		pr.Get("/insights", h.ServeInsights)
		pr.Get("/export.csv", h.ServeExport)
	})
	return r
}
