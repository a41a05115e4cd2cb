// internal/app/features/customersuccess/export.go
package customersuccess

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/csvutil"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"go.uber.org/zap"
)

var errRosterUnavailable = errors.New("company roster unavailable")

// exportColumns fixes the CSV column order.
var exportColumns = []string{
	"id", "name", "email", "phone", "website", "address", "subscription", "subscription_id",
	"documents_created", "users_count", "engagement_score", "last_activity", "created_at",
}

func subscriptionLabel(c models.CompanyRecord) string {
	if c.IsTrial() {
		return "Trial"
	}
	return c.SubscriptionTier
}

// exportRecords flattens roster rows for csvutil.
func exportRecords(rows []models.CompanyRecord) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, c := range rows {
		out = append(out, map[string]any{
			"id":                c.ID,
			"name":              c.Name,
			"email":             c.Email,
			"phone":             c.Phone,
			"website":           c.Website,
			"address":           c.Address,
			"subscription":      subscriptionLabel(c),
			"subscription_id":   c.SubscriptionID,
			"documents_created": c.DocumentsCreated,
			"users_count":       c.UsersCount,
			"engagement_score":  c.EngagementScore,
			"last_activity":     c.LastActivity,
			"created_at":        c.CreatedAt,
		})
	}
	return out
}

// source adapts one backend call for shared.Gather.
func source(name string, call func(context.Context) (any, error), decode func(any)) shared.Source {
	return shared.Source{Name: name, Run: func(ctx context.Context) error {
		resp, err := call(ctx)
		if err != nil {
			return err
		}
		decode(resp)
		return nil
	}}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /customer-success/export.csv                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeExport downloads the roster with the list's filter and sort.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	p := readParams(r)

	resp, err := h.Client(r).CompaniesDetailed(r.Context(), rosterLimit)
	if err != nil {
		if h.Handled(w, r, err) {
			return
		}
		h.ErrLog.LogServerError(w, r, "export company roster", err, shared.FailureReason(err), p.url("/customer-success"))
		return
	}

	rows := p.apply(analytics.Companies(resp, h.Now()))
	if err := csvutil.Write(w, "customers", exportRecords(rows), h.Now(), exportColumns...); err != nil {
		h.Log.Warn("write roster csv", zap.Error(err))
	}
}
