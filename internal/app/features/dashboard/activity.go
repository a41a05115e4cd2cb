package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/ezdash/internal/app/clients/analytics"
	"github.com/dalemusser/ezdash/internal/app/features/shared"
	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// maxActivity caps the feed.
const maxActivity = 10

type activityKind struct {
	Icon   string
	Title  string
	Status string
}

var activityKinds = map[string]activityKind{
	models.ActivityCompanyCreated:   {"building-2", "New company registered", "completed"},
	models.ActivityProposalCreated:  {"file-text", "Proposal created", "draft"},
	models.ActivityProposalSent:     {"send", "Proposal sent", "completed"},
	models.ActivityProposalApproved: {"check-circle", "Proposal approved", "completed"},
	models.ActivityUserLogin:        {"user", "User login", "completed"},
	models.ActivityDocumentEdited:   {"edit-3", "Document edited", "in_progress"},
	models.ActivityCompanyUpdated:   {"building-2", "Company profile updated", "completed"},
}

// activityItems maps /activity/recent. Unknown types keep the backend
// action as title (or "Activity") with the default icon.
func activityItems(resp any, now time.Time) []models.ActivityItem {
	rows := analytics.Records(resp, "activities", "data")
	out := make([]models.ActivityItem, 0, maxActivity)
	for i, row := range rows {
		if len(out) == maxActivity {
			break
		}
		item := models.ActivityItem{
			ID:          probe.String(row, "id"),
			Kind:        probe.String(row, "type"),
			Icon:        "file-text",
			Title:       probe.String(row, "action"),
			Description: htmlsanitize.Text(probe.String(row, "description", "entity_name")),
			Timestamp:   probe.Time(row, "created_at"),
			Status:      "completed",
		}
		if item.ID == "" {
			item.ID = strconv.Itoa(i)
		}
		if item.Title == "" {
			item.Title = "Activity"
		}
		if k, ok := activityKinds[item.Kind]; ok {
			item.Icon, item.Title, item.Status = k.Icon, k.Title, k.Status
		}
		if s := probe.String(row, "status"); s != "" {
			item.Status = s
		}
		item.TimeAgo = format.RelativeTime(item.Timestamp, now, "Just now")
		out = append(out, item)
	}
	return out
}

func activityEmpty(items []models.ActivityItem) bool { return len(items) == 0 }

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/activity                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	snap, ok := shared.Load(h.Deps, w, r, h.HookKey(r, "activity"), "activity", activityEmpty,
		func(ctx context.Context, c *analytics.Client) ([]models.ActivityItem, error) {
			resp, err := c.RecentActivity(ctx, 20)
			if err != nil {
				return nil, err
			}
			return activityItems(resp, h.Now()), nil
		})
	if !ok {
		return
	}
	templates.RenderSnippet(w, "dashboard_activity", shared.PanelFrom(snap))
}
