package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/csvutil"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// metricCard is one tile of the Key Metrics panel.
type metricCard struct {
	Title    string
	Value    string
	Change   string
	Increase bool
	Icon     string
	Color    string
}

type metricsData struct {
	shared.Panel[[]metricCard]
	Range  string
	Ranges []viewdata.RangeTab
}

// metricCards lays out a snapshot in display order.
func metricCards(s models.MetricsSnapshot) []metricCard {
	card := func(title string, v int64, change int, icon, color string) metricCard {
		return metricCard{
			Title:    title,
			Value:    format.Count(v),
			Change:   format.ChangeLabel(change),
			Increase: change >= 0,
			Icon:     icon,
			Color:    color,
		}
	}
	return []metricCard{
		card("Companies Created", s.Companies, s.CompaniesChange, "building-2", "bg-blue-500"),
		card("Documents Created", s.Documents, s.DocumentsChange, "file-text", "bg-green-500"),
		card("Unfinished Documents", s.Unfinished, s.UnfinishedChange, "clock", "bg-orange-500"),
		card("Active Users", s.Users, s.UsersChange, "users", "bg-purple-500"),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/metrics?range=                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeMetrics renders the Key Metrics panel for one time range. A
// range switch supersedes any load still in flight for this session.
func (h *Handler) ServeMetrics(w http.ResponseWriter, r *http.Request) {
	rng := timeranges.Normalize(r.URL.Query().Get("range"))
	start, end := timeranges.Bounds(rng, h.Now())

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "metrics"), "metrics", nil,
		func(ctx context.Context, c *analytics.Client) ([]metricCard, error) {
			resp, err := c.MetricsSummary(ctx, start, end)
			if err != nil {
				return nil, err
			}
			return metricCards(analytics.Summary(resp)), nil
		})
	if !ok {
		return
	}

	templates.RenderSnippet(w, "dashboard_metrics", metricsData{
		Panel:  shared.PanelFrom(snap),
		Range:  rng,
		Ranges: viewdata.RangeTabs(rng),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/export.csv?range=                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeExport downloads the metrics summary for a range as CSV.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	rng := timeranges.Normalize(r.URL.Query().Get("range"))
	start, end := timeranges.Bounds(rng, h.Now())

	resp, err := h.Client(r).MetricsSummary(r.Context(), start, end)
	if err != nil {
		if h.Handled(w, r, err) {
			return
		}
		h.ErrLog.LogServerError(w, r, "export metrics summary", err, shared.FailureReason(err), "/dashboard")
		return
	}

	if err := csvutil.Write(w, "dashboard_metrics_"+rng, csvutil.Normalize(resp), h.Now()); err != nil {
		h.Log.Warn("write metrics csv", zap.Error(err))
	}
}
