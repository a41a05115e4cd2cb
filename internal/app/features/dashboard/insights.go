package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

const maxInsights = 4

// insightColors are cycled through for generated insights.
var insightColors = []string{"bg-blue-500", "bg-green-500", "bg-purple-500", "bg-orange-500", "bg-pink-500"}

// insightSources are the three responses the panel is built from. A
// nil field means that source failed or returned nothing.
type insightSources struct {
	Peak      map[string]any
	Geo       map[string]any
	Generated map[string]any
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// buildInsights orders peak usage, top region, then generated insights.
func buildInsights(src insightSources) []models.Insight {
	var out []models.Insight

	if hour, ok := probe.Number(src.Peak, "peak_hour"); ok && hour != 0 {
		pct := probe.Float(src.Peak, "peak_percentage")
		out = append(out, models.Insight{
			Title:       "Peak Usage Hours",
			Value:       fmt.Sprintf("%s:00 - %s:00", num(hour), num(hour+2)),
			Description: fmt.Sprintf("%s%% of daily activity", num(pct)),
			Progress:    pct,
			Color:       "bg-blue-500",
		})
	}

	if top, ok := probe.Object(src.Geo, "top_state"); ok {
		pct := probe.Float(top, "percentage")
		out = append(out, models.Insight{
			Title:       "Top Geographic Region",
			Value:       htmlsanitize.Text(probe.String(top, "name")),
			Description: fmt.Sprintf("%s%% of total users", num(pct)),
			Progress:    pct,
			Color:       "bg-green-500",
		})
	}

	for i, g := range probe.Objects(src.Generated, "insights") {
		in := models.Insight{
			Title:       htmlsanitize.Text(probe.String(g, "title")),
			Value:       htmlsanitize.Text(probe.String(g, "value")),
			Description: htmlsanitize.Text(probe.String(g, "description")),
			Progress:    50,
			Color:       insightColors[i%len(insightColors)],
		}
		if in.Title == "" {
			in.Title = "Insight"
		}
		if in.Value == "" {
			in.Value = "N/A"
		}
		if score, ok := probe.Number(g, "score"); ok && score != 0 {
			in.Progress = score
		}
		out = append(out, in)
	}

	for i := range out {
		out[i].Progress = min(max(out[i].Progress, 0), 100)
	}
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

func insightsEmpty(v []models.Insight) bool { return len(v) == 0 }

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/insights                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeInsights renders Quick Insights. The three sources load
// concurrently and any one of them may fail without hiding the rest.
func (h *Handler) ServeInsights(w http.ResponseWriter, r *http.Request) {
	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "insights"), "insights", insightsEmpty,
		func(ctx context.Context, c *analytics.Client) ([]models.Insight, error) {
			var src insightSources
			object := func(dst *map[string]any, call func(context.Context) (any, error)) func(context.Context) error {
				return func(ctx context.Context) error {
					resp, err := call(ctx)
					*dst = analytics.Object(resp)
					return err
				}
			}
			_, err := shared.Gather(ctx, h.Log,
				shared.Source{Name: "insights", Run: object(&src.Generated, func(ctx context.Context) (any, error) { return c.Insights(ctx, 5) })},
				shared.Source{Name: "peak_usage", Run: object(&src.Peak, func(ctx context.Context) (any, error) { return c.PeakUsage(ctx, "last_7_days") })},
				shared.Source{Name: "geographic", Run: object(&src.Geo, c.GeographicDistribution)},
			)
			if err != nil {
				return nil, err
			}
			return buildInsights(src), nil
		})
	if !ok {
		return
	}
	templates.RenderSnippet(w, "dashboard_insights", shared.PanelFrom(snap))
}
