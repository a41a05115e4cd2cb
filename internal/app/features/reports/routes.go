package reports

import (
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func signedIn(sm *auth.SessionManager, fn func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		fn(pr)
	})
	return r
}

// AnalyticsRoutes is mounted at /analytics.
func AnalyticsRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	return signedIn(sm, func(r chi.Router) {
		r.Get("/", h.ServeAnalytics)
		r.Get("/export.csv", h.ServeAnalyticsExport)
	})
}

// GeographicRoutes is mounted at /geographic.
func GeographicRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	return page(sm, h.ServeGeographic)
}

// UsageRoutes is mounted at /usage.
func UsageRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	return page(sm, h.ServeUsage)
}

// DocumentsRoutes is mounted at /documents.
func DocumentsRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	return page(sm, h.ServeDocuments)
}

func page(sm *auth.SessionManager, serve http.HandlerFunc) chi.Router {
	return signedIn(sm, func(r chi.Router) { r.Get("/", serve) })
}
