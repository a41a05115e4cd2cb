// internal/app/features/customersuccess/routes.go
package customersuccess

import (
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/export.csv", h.ServeExport)
		pr.Get("/{id}", h.ServeDetail)
	})
	return r
}
