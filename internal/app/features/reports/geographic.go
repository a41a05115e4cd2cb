package reports

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	maxStates = 10
	maxCities = 20
)

// topState prefers the backend's top_state and falls back to the
// largest row.
func topState(resp any, rows []models.Breakdown) string {
	if top, ok := probe.Object(analytics.Object(resp), "top_state"); ok {
		if name := probe.String(top, "name", "state"); name != "" {
			return htmlsanitize.Text(name)
		}
	}
	best := -1
	for i, b := range rows {
		if best < 0 || b.Count > rows[best].Count {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return rows[best].Name
}

func stateOptions(states []string, selected string) []option {
	opts := []option{{Value: "", Label: "All states", Selected: selected == ""}}
	for _, s := range states {
		opts = append(opts, option{Value: s, Label: s, Selected: strings.EqualFold(s, selected)})
	}
	return opts
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /geographic?state=                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGeographic(w http.ResponseWriter, r *http.Request) {
	state := strings.TrimSpace(query.Get(r, "state"))

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "geographic"), "geographic", nil,
		func(ctx context.Context, c *analytics.Client) (Report, error) {
			var (
				states, cities []models.Breakdown
				top            string
			)
			failed, err := shared.Gather(ctx, h.Log,
				source("states", c.GeographicDistribution, func(resp any) {
					states = analytics.Breakdowns(resp, "states", "data")
					top = topState(resp, states)
				}),
				source("cities",
					func(ctx context.Context) (any, error) { return c.CityAnalytics(ctx, state, maxCities) },
					func(resp any) { cities = analytics.Breakdowns(resp, "cities", "data") }),
			)
			if err != nil {
				return Report{}, err
			}

			citiesTitle := "Top Cities by User Count"
			if state != "" {
				citiesTitle += " in " + state
			}
			rep := Report{
				Lists: []List{
					list("User Distribution by State", states, failed["states"], maxStates),
					list(citiesTitle, cities, failed["cities"], maxCities),
				},
			}
			if !failed["states"] {
				rep.Stats = []Stat{{Label: "States Covered", Value: strconv.Itoa(len(states)), Color: "text-blue-600"}}
				if top != "" {
					rep.Stats = append(rep.Stats, Stat{Label: "Top State", Value: top, Color: "text-green-600"})
				}
				for _, s := range states {
					rep.States = append(rep.States, s.Name)
				}
			}
			return rep, nil
		})
	if !ok {
		return
	}

	h.render(w, r, pageData{
		BaseVM:     viewdata.NewBaseVM(r, "Geographic", "/dashboard"),
		Heading:    "Geographic Insights",
		Subheading: "Understand where your users are located",
		Path:       "/geographic",
		States:     stateOptions(snap.Data.States, state),
	}, snap)
}
