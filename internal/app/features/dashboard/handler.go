// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type Handler struct {
	*shared.Deps
}

func NewHandler(deps *shared.Deps) *Handler {
	return &Handler{Deps: deps}
}

type dashboardData struct {
	viewdata.BaseVM
	FirstName string
	Today     string
	Range     string
	Ranges    []viewdata.RangeTab
}

// ServeDashboard renders the page shell. Each panel loads itself with
// an HTMX request on page load.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	rng := timeranges.Normalize(r.URL.Query().Get("range"))

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/dashboard"),
		Today:  h.Now().Format("Monday, January 2, 2006"),
		Range:  rng,
		Ranges: viewdata.RangeTabs(rng),
	}
	if u != nil {
		data.FirstName = u.Session.FirstName
	}
	templates.Render(w, r, "dashboard", data)
}
