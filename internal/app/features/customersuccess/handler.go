// internal/app/features/customersuccess/handler.go
package customersuccess

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/auth"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/paging"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// rosterLimit is how many companies the roster asks the backend for.
const rosterLimit = 100

type Handler struct {
	*shared.Deps
}

func NewHandler(deps *shared.Deps) *Handler {
	return &Handler{Deps: deps}
}

// listParams are the roster controls carried in the query string.
type listParams struct {
	Search       string
	Subscription string
	Sort         string
	Dir          string
	Start        int
}

func readParams(r *http.Request) listParams {
	key, dir := NormalizeSort(query.Get(r, "sort"), query.Get(r, "dir"))
	return listParams{
		Search:       query.Get(r, "q"),
		Subscription: NormalizeSubscription(query.Get(r, "subscription")),
		Sort:         key,
		Dir:          dir,
		Start:        paging.ParseStart(r),
	}
}

// values encodes p, leaving defaults out.
func (p listParams) values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	if p.Subscription != SubscriptionAll {
		v.Set("subscription", p.Subscription)
	}
	if p.Sort != SortName || p.Dir != Asc {
		v.Set("sort", p.Sort)
		v.Set("dir", p.Dir)
	}
	if p.Start > 1 {
		v.Set("start", strconv.Itoa(p.Start))
	}
	return v
}

func (p listParams) url(path string) string {
	if q := p.values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// firstPage is p without its page offset.
func (p listParams) firstPage() listParams {
	p.Start = 1
	return p
}

// apply filters and sorts rows the way the list shows them.
func (p listParams) apply(rows []models.CompanyRecord) []models.CompanyRecord {
	return Sort(Filter(rows, p.Search, p.Subscription), p.Sort, p.Dir)
}

func rosterEmpty(rows []models.CompanyRecord) bool { return len(rows) == 0 }

// loadRoster fetches the roster through the view hook.
func (h *Handler) loadRoster(w http.ResponseWriter, r *http.Request) (shared.Panel[[]models.CompanyRecord], bool) {
	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "roster"), "roster", rosterEmpty,
		func(ctx context.Context, c *analytics.Client) ([]models.CompanyRecord, error) {
			resp, err := c.CompaniesDetailed(ctx, rosterLimit)
			if err != nil {
				return nil, err
			}
			return analytics.Companies(resp, h.Now()), nil
		})
	if !ok {
		return shared.Panel[[]models.CompanyRecord]{}, false
	}
	return shared.PanelFrom(snap), true
}

// plan returns the subscription badge text and the trial countdown.
func (h *Handler) plan(c models.CompanyRecord) (badge, daysLeft string) {
	if !c.IsTrial() {
		return "Paid", "-"
	}
	return "Trial", format.TrialLabel(c.CreatedAt, h.Now())
}

func created(c models.CompanyRecord) string {
	if c.CreatedAt == nil {
		return "-"
	}
	return c.CreatedAt.Format(format.DateLayout)
}

func partial(r *http.Request) bool {
	return auth.IsHTMX(r) && r.Header.Get("HX-Boosted") == ""
}
