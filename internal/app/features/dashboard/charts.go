package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/app/system/viewmodel"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// growthSeries are the user-growth charts in display order.
var growthSeries = []struct{ Metric, Title string }{
	{"registered", "Total Registered Users"},
	{"paying", "Total Paying Users"},
	{"new", "NEW Users"},
	{"active", "ACTIVE Users"},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/charts                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCharts renders the four user-growth charts for the last seven
// days. Each series loads on its own; a failed one is marked in place.
func (h *Handler) ServeCharts(w http.ResponseWriter, r *http.Request) {
	start, end := timeranges.LastDays(7, h.Now())

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "charts"), "charts", viewmodel.SeriesEmpty,
		func(ctx context.Context, c *analytics.Client) ([]models.Series, error) {
			specs := make([]viewmodel.SeriesSpec, 0, len(growthSeries))
			for _, g := range growthSeries {
				specs = append(specs, viewmodel.SeriesSpec{
					Name:  g.Metric,
					Title: g.Title,
					Fetch: func(ctx context.Context) ([]models.TimeSeriesPoint, error) {
						resp, err := c.UserGrowth(ctx, g.Metric, start, end, "day")
						if err != nil {
							return nil, err
						}
						return analytics.Points(resp), nil
					},
				})
			}
			return viewmodel.Batch(ctx, specs, analytics.IsSessionExpired, h.Log)
		})
	if !ok {
		return
	}

	p := shared.PanelFrom(snap)
	templates.RenderSnippet(w, "dashboard_charts", shared.Panel[[]viewdata.Chart]{
		State:  p.State,
		Reason: p.Reason,
		Data:   viewdata.ChartsFrom(p.Data),
	})
}
