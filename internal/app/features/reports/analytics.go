package reports

import (
	"context"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/csvutil"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"go.uber.org/zap"
)

// comparePeriods pairs each range with the backend period names used
// for the period comparison table.
var comparePeriods = map[string][2]string{
	timeranges.Daily:   {"today", "yesterday"},
	timeranges.Weekly:  {"this_week", "last_week"},
	timeranges.Monthly: {"this_month", "last_month"},
}

// comparisons maps /analytics/compare rows. A missing change is
// computed from current and previous.
func comparisons(resp any) []Comparison {
	rows := analytics.Records(resp, "metrics", "data")
	out := make([]Comparison, 0, len(rows))
	for _, row := range rows {
		cur := probe.Float(row, "current", "current_value")
		prev := probe.Float(row, "previous", "previous_value", "compare_value")
		change := format.CalcChange(cur, prev)
		if v, ok := probe.Number(row, "change", "change_percentage"); ok {
			change = int(v)
		}
		name := probe.String(row, "metric", "name", "label")
		if name == "" {
			name = "Unknown"
		}
		out = append(out, Comparison{
			Metric:   name,
			Current:  format.Count(int64(cur)),
			Previous: format.Count(int64(prev)),
			Change:   format.ChangeLabel(change),
			Increase: change >= 0,
		})
	}
	return out
}

// companyStats summarises the company creation series.
func companyStats(points []models.TimeSeriesPoint, days int) []Stat {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	avg := 0.0
	if days > 0 {
		avg = total / float64(days)
	}
	return []Stat{
		{Label: "New Companies", Value: format.Count(int64(total)), Color: "text-blue-600"},
		{Label: "Avg. Daily New", Value: format.Decimal(avg, 1), Color: "text-purple-600"},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics?range=                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	rng := rangeParam(r, timeranges.Weekly)
	start, end := timeranges.Bounds(rng, h.Now())
	days := int(end.Sub(start).Hours()/24) + 1

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "analytics"), "analytics", nil,
		func(ctx context.Context, c *analytics.Client) (Report, error) {
			var (
				companies, revenue                []models.TimeSeriesPoint
				newCompanies, newUsers, proposals []models.TimeSeriesPoint
				statuses, types                   []models.Breakdown
				cmp                               []Comparison
			)
			periods := comparePeriods[rng]
			failed, err := shared.Gather(ctx, h.Log,
				source("companies",
					func(ctx context.Context) (any, error) { return c.CompaniesMetrics(ctx, start, end, "day") },
					func(resp any) { companies = analytics.Points(resp) }),
				source("proposals",
					func(ctx context.Context) (any, error) { return c.ProposalsMetrics(ctx, start, end) },
					func(resp any) { statuses = analytics.Breakdowns(resp, "data", "statuses") }),
				source("document_types",
					func(ctx context.Context) (any, error) { return c.DocumentTypes(ctx, start, end) },
					func(resp any) { types = analytics.Breakdowns(resp, "data", "types") }),
				source("growth", c.GrowthTrends, func(resp any) {
					newCompanies = analytics.Points(resp, "new_companies")
					newUsers = analytics.Points(resp, "new_users")
					proposals = analytics.Points(resp, "proposals_created")
				}),
				source("revenue", c.RevenueAnalytics,
					func(resp any) { revenue = analytics.Points(resp, "approved_proposal_value", "value") }),
				source("comparison",
					func(ctx context.Context) (any, error) { return c.ComparativeAnalytics(ctx, periods[0], periods[1]) },
					func(resp any) { cmp = comparisons(resp) }),
			)
			if err != nil {
				return Report{}, err
			}

			rep := Report{
				Charts: []viewdata.Chart{
					chart("companies", "Daily Company Creation", companies, failed["companies"]),
					chart("new_companies", "Company Growth Over Time", newCompanies, failed["growth"]),
					chart("new_users", "User Growth Over Time", newUsers, failed["growth"]),
					chart("proposals_created", "Document Creation Trends", proposals, failed["growth"]),
					chart("revenue", "Approved Proposal Value", revenue, failed["revenue"]),
				},
				Lists: []List{
					list("Document Status Overview", statuses, failed["proposals"], 0),
					list("Document Types Distribution", types, failed["document_types"], 0),
				},
				Comparison: cmp,
			}
			if !failed["companies"] {
				rep.Stats = companyStats(companies, days)
			}
			return rep, nil
		})
	if !ok {
		return
	}

	h.render(w, r, pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Analytics", "/dashboard"),
		Heading:    "Analytics Dashboard",
		Subheading: "Comprehensive business intelligence and reporting",
		Path:       "/analytics",
		Range:      rng,
		Ranges:     viewdata.RangeTabs(rng),
		ExportURL:  "/analytics/export.csv?range=" + rng,
	}, snap)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /analytics/export.csv?range=                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAnalyticsExport downloads the company metrics for a range.
func (h *Handler) ServeAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	rng := rangeParam(r, timeranges.Weekly)
	start, end := timeranges.Bounds(rng, h.Now())

	resp, err := h.Client(r).CompaniesMetrics(r.Context(), start, end, "day")
	if err != nil {
		if h.Handled(w, r, err) {
			return
		}
		h.ErrLog.LogServerError(w, r, "export company metrics", err, shared.FailureReason(err), "/analytics")
		return
	}
	if err := csvutil.Write(w, "analytics_companies_"+rng, csvutil.Normalize(resp), h.Now()); err != nil {
		h.Log.Warn("write analytics csv", zap.Error(err))
	}
}
