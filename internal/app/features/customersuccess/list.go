// internal/app/features/customersuccess/list.go
package customersuccess

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/ezdash/internal/app/system/paging"
	"github.com/dalemusser/ezdash/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

type companyRow struct {
	ID        string
	Name      string
	Email     string
	Plan      string
	Trial     bool
	DaysLeft  string
	Created   string
	DetailURL string
}

type sortHeader struct {
	Label  string
	URL    string
	Active bool
	Desc   bool
}

type listData struct {
	viewdata.BaseVM
	State         string
	Reason        string
	Rows          []companyRow
	Count         string
	Search        string
	Subscription  string
	Subscriptions []option
	Headers       map[string]sortHeader
	ExportURL     string
	Page          paging.Range
	PrevURL       string
	NextURL       string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func subscriptionOptions(selected string) []option {
	return []option{
		{SubscriptionAll, "All Subscriptions", selected == SubscriptionAll},
		{SubscriptionTrial, "Trial", selected == SubscriptionTrial},
		{SubscriptionPaid, "Paid", selected == SubscriptionPaid},
	}
}

func headers(p listParams) map[string]sortHeader {
	labels := map[string]string{
		SortName:             "Company",
		SortEmail:            "Email",
		SortCreatedAt:        "Created",
		SortDocumentsCreated: "Documents",
		SortUsersCount:       "Users",
		SortEngagementScore:  "Engagement",
	}
	out := make(map[string]sortHeader, len(labels))
	for key, label := range labels {
		next := p.firstPage()
		next.Sort, next.Dir = NextSort(p.Sort, p.Dir, key)
		out[key] = sortHeader{
			Label:  label,
			URL:    next.url("/customer-success"),
			Active: p.Sort == key,
			Desc:   p.Sort == key && p.Dir == Desc,
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /customer-success?q=&subscription=&sort=&dir=&start=                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList renders the roster. HTMX requests from the search box and
// filter get only the table.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := readParams(r)

	panel, ok := h.loadRoster(w, r)
	if !ok {
		return
	}

	visible := p.apply(panel.Data)
	page, rng := paging.Slice(visible, p.Start, paging.PageSize)
	rows := make([]companyRow, 0, len(page))
	for _, c := range page {
		plan, days := h.plan(c)
		rows = append(rows, companyRow{
			ID:        c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Plan:      plan,
			Trial:     c.IsTrial(),
			DaysLeft:  days,
			Created:   created(c),
			DetailURL: p.url("/customer-success/" + c.ID),
		})
	}

	data := listData{
		BaseVM:        viewdata.NewBaseVM(r, "Customer Success", "/dashboard"),
		State:         panel.State,
		Reason:        panel.Reason,
		Rows:          rows,
		Count:         strconv.Itoa(len(visible)),
		Search:        p.Search,
		Subscription:  p.Subscription,
		Subscriptions: subscriptionOptions(p.Subscription),
		Headers:       headers(p),
		ExportURL:     p.firstPage().url("/customer-success/export.csv"),
		Page:          rng,
	}
	if rng.HasPrev {
		prev := p
		prev.Start = rng.PrevStart
		data.PrevURL = prev.url("/customer-success")
	}
	if rng.HasNext {
		next := p
		next.Start = rng.NextStart
		data.NextURL = next.url("/customer-success")
	}

	if partial(r) {
		templates.RenderSnippet(w, "cs_roster", data)
		return
	}
	templates.Render(w, r, "cs_list", data)
}
