// internal/app/features/customersuccess/detail.go
package customersuccess

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// engagementStat is one figure from /analytics/companies/engagement.
type engagementStat struct {
	Label string
	Value string
}

var engagementMetrics = []struct{ Key, Label, Suffix string }{
	{"login_frequency", "Logins per Week", ""},
	{"proposal_creation_rate", "Proposals per Week", ""},
	{"approval_rate", "Approval Rate", "%"},
}

// engagementFor picks the row for id out of an engagement response.
func engagementFor(resp any, id string) []engagementStat {
	var row map[string]any
	for _, r := range analytics.Records(resp, "companies", "data") {
		if probe.String(r, "company_id", "id") == id {
			row = r
			break
		}
	}
	if row == nil {
		return nil
	}
	var out []engagementStat
	for _, m := range engagementMetrics {
		if v, ok := probe.Number(row, m.Key); ok {
			out = append(out, engagementStat{Label: m.Label, Value: format.Decimal(v, 1) + m.Suffix})
		}
	}
	return out
}

// companyDetail is the company plus its engagement figures.
type companyDetail struct {
	Company          models.CompanyRecord
	Found            bool
	Engagement       []engagementStat
	EngagementFailed bool
}

type detailData struct {
	viewdata.BaseVM
	State      string
	Reason     string
	Detail     companyDetail
	Plan       string
	Trial      bool
	DaysLeft   string
	Created    string
	LastSeen   string
	Documents  string
	Users      string
	MailtoURL  string
	BackToList string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /customer-success/{id}                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDetail renders one company. HTMX requests get the side panel only.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	p := readParams(r)

	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "company"), "company", nil,
		func(ctx context.Context, c *analytics.Client) (companyDetail, error) {
			var d companyDetail
			var engagement any
			failed, err := shared.Gather(ctx, h.Log,
				source("roster", func(ctx context.Context) (any, error) { return c.CompaniesDetailed(ctx, rosterLimit) }, func(resp any) {
					for _, co := range analytics.Companies(resp, h.Now()) {
						if co.ID == id {
							d.Company, d.Found = co, true
							break
						}
					}
				}),
				source("engagement", func(ctx context.Context) (any, error) { return c.CompanyEngagement(ctx, []string{id}) }, func(resp any) {
					engagement = resp
				}),
			)
			if err != nil {
				return companyDetail{}, err
			}
			if failed["roster"] {
				return companyDetail{}, errRosterUnavailable
			}
			d.Engagement = engagementFor(engagement, id)
			d.EngagementFailed = failed["engagement"]
			return d, nil
		})
	if !ok {
		return
	}

	panel := shared.PanelFrom(snap)
	data := detailData{
		BaseVM:     viewdata.NewBaseVM(r, "Company Details", "/customer-success"),
		State:      panel.State,
		Reason:     panel.Reason,
		Detail:     panel.Data,
		BackToList: p.url("/customer-success"),
	}
	if panel.Data.Found {
		c := panel.Data.Company
		data.Title = c.Name
		data.Plan, data.DaysLeft = h.plan(c)
		data.Trial = c.IsTrial()
		data.Created = created(c)
		data.LastSeen = c.LastActivitySince
		data.Documents = format.Count(c.DocumentsCreated)
		data.Users = format.Count(c.UsersCount)
		if c.Email != "" {
			data.MailtoURL = "mailto:" + c.Email
		}
	}

	if partial(r) {
		templates.RenderSnippet(w, "cs_detail", data)
		return
	}
	templates.Render(w, r, "cs_detail_page", data)
}
