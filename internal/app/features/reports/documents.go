package reports

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
)

func total(rows []models.Breakdown) int64 {
	var n float64
	for _, b := range rows {
		n += b.Count
	}
	return int64(n)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /documents?range=                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDocuments(w http.ResponseWriter, r *http.Request) {
	rng := rangeParam(r, timeranges.Monthly)
	start, end := timeranges.Bounds(rng, h.Now())

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "documents"), "documents", nil,
		func(ctx context.Context, c *analytics.Client) (Report, error) {
			var (
				types, statuses     []models.Breakdown
				approval, generated []models.TimeSeriesPoint
			)
			failed, err := shared.Gather(ctx, h.Log,
				source("types",
					func(ctx context.Context) (any, error) { return c.DocumentTypes(ctx, start, end) },
					func(resp any) { types = analytics.Breakdowns(resp, "data", "types") }),
				source("status",
					func(ctx context.Context) (any, error) { return c.ProposalStatus(ctx, start, end) },
					func(resp any) { statuses = analytics.Breakdowns(resp, "data", "statuses") }),
				source("performance", c.ProposalPerformance, func(resp any) {
					approval = analytics.Points(resp, "approval_rate")
					generated = analytics.Points(resp, "generation_count")
				}),
			)
			if err != nil {
				return Report{}, err
			}

			rep := Report{
				Charts: []viewdata.Chart{
					chart("approval_rate", "Approval Rate by Month", approval, failed["performance"]),
					chart("generation_count", "Documents Generated by Month", generated, failed["performance"]),
				},
				Lists: []List{
					list("Document Types Distribution", types, failed["types"], 0),
					list("Document Status Overview", statuses, failed["status"], 0),
				},
			}
			if !failed["status"] {
				rep.Stats = append(rep.Stats, Stat{Label: "Documents", Value: format.Count(total(statuses)), Color: "text-blue-600"})
			}
			if !failed["types"] {
				rep.Stats = append(rep.Stats, Stat{Label: "Document Types", Value: strconv.Itoa(len(types)), Color: "text-green-600"})
			}
			return rep, nil
		})
	if !ok {
		return
	}

	h.render(w, r, pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Documents", "/dashboard"),
		Heading:    "Document Analytics",
		Subheading: "Analyze document creation patterns and editing behavior",
		Path:       "/documents",
		Range:      rng,
		Ranges:     viewdata.RangeTabs(rng),
	}, snap)
}
