// Package reports serves the analytics, geographic, usage and documents
// pages. Each page gathers several backend sources at once and renders
// whatever loaded; a failed source shows "Unable to load data" in its
// own card.
package reports

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

type Handler struct {
	*shared.Deps
}

func NewHandler(deps *shared.Deps) *Handler {
	return &Handler{Deps: deps}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Stat is a headline figure.
type Stat struct {
	Label string
	Value string
	Color string
}

// List is a titled breakdown card.
type List struct {
	Title  string
	Failed bool
	Bars   []viewdata.Bar
}

// Comparison is one row of the period comparison table.
type Comparison struct {
	Metric   string
	Current  string
	Previous string
	Change   string
	Increase bool
}

// Report is what a page loader produces.
type Report struct {
	Stats      []Stat
	Charts     []viewdata.Chart
	Lists      []List
	Comparison []Comparison
	States     []string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	viewdata.BaseVM
	shared.Panel[Report]
	Heading    string
	Subheading string
	Path       string
	Range      string
	Ranges     []viewdata.RangeTab
	ExportURL  string
	States     []option
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// rangeParam reads ?range=, falling back to def when absent.
func rangeParam(r *http.Request, def string) string {
	if v := r.URL.Query().Get("range"); v != "" {
		return timeranges.Normalize(v)
	}
	return def
}

// source decodes one backend call into page state.
func source(name string, call func(context.Context) (any, error), decode func(any)) shared.Source {
	return shared.Source{Name: name, Run: func(ctx context.Context) error {
		resp, err := call(ctx)
		if err != nil {
			return err
		}
		decode(resp)
		return nil
	}}
}

func chart(name, title string, points []models.TimeSeriesPoint, failed bool) viewdata.Chart {
	return viewdata.ChartFrom(models.Series{Name: name, Title: title, Points: points, Failed: failed})
}

// list builds a breakdown card showing at most limit rows (0 means all).
func list(title string, rows []models.Breakdown, failed bool, limit int) List {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return List{Title: title, Failed: failed, Bars: viewdata.BarsFrom(rows)}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData, snap viewmodel.Snapshot[Report]) {
	data.Panel = shared.PanelFrom(snap)
	templates.Render(w, r, "report", data)
}
