package reports

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
)

// peakStats reads the headline figures of /analytics/usage/peaks.
func peakStats(m map[string]any) []Stat {
	var out []Stat
	if hour, ok := probe.Number(m, "peak_hour"); ok {
		out = append(out, Stat{Label: "Peak Hour", Value: fmt.Sprintf("%02d:00", int(hour)), Color: "text-blue-600"})
	}
	if day := probe.String(m, "peak_day"); day != "" {
		out = append(out, Stat{Label: "Busiest Day", Value: day, Color: "text-green-600"})
	}
	if pct, ok := probe.Number(m, "peak_percentage"); ok {
		out = append(out, Stat{Label: "Share at Peak", Value: format.Decimal(pct, 1) + "%", Color: "text-purple-600"})
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /usage                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUsage(w http.ResponseWriter, r *http.Request) {
	start, end := timeranges.LastDays(30, h.Now())

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "usage"), "usage", nil,
		func(ctx context.Context, c *analytics.Client) (Report, error) {
			var (
				sessions       []models.TimeSeriesPoint
				days, features []models.Breakdown
				stats          []Stat
			)
			failed, err := shared.Gather(ctx, h.Log,
				source("sessions",
					func(ctx context.Context) (any, error) { return c.SessionAnalytics(ctx, start, end) },
					func(resp any) { sessions = analytics.Points(resp) }),
				source("peaks",
					func(ctx context.Context) (any, error) { return c.PeakUsage(ctx, "last_30_days") },
					func(resp any) {
						stats = peakStats(analytics.Object(resp))
						days = analytics.Breakdowns(resp, "by_day", "days")
					}),
				source("features", c.FeatureUsage,
					func(resp any) { features = analytics.Breakdowns(resp, "features", "data") }),
			)
			if err != nil {
				return Report{}, err
			}
			return Report{
				Stats:  stats,
				Charts: []viewdata.Chart{chart("sessions", "Daily Usage Pattern", sessions, failed["sessions"])},
				Lists: []List{
					list("Weekly Activity Levels", days, failed["peaks"], 0),
					list("Feature Usage", features, failed["features"], 0),
				},
			}, nil
		})
	if !ok {
		return
	}

	h.render(w, r, pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Usage", "/dashboard"),
		Heading:    "Usage Patterns",
		Subheading: "Understand when and how users engage with your app",
		Path:       "/usage",
	}, snap)
}
