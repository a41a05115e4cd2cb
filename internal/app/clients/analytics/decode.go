package analytics

import (
	"math"
	"strings"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/app/system/probe"
	"github.com/dalemusser/ezdash/internal/domain/models"
)

// Records returns the list of objects in a decoded response. A bare
// array is used as-is; for an object the first array found under keys
// wins.
func Records(resp any, keys ...string) []map[string]any {
	switch t := resp.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return probe.Objects(t, keys...)
	}
	return nil
}

// Object returns resp as an object, or nil.
func Object(resp any) map[string]any {
	m, _ := resp.(map[string]any)
	return m
}

// Summary maps /metrics/summary. Change percentages are filled only
// when previous_period is present.
func Summary(resp any) models.MetricsSnapshot {
	m := Object(resp)
	snap := models.MetricsSnapshot{
		Companies:  probe.Int(m, "companies"),
		Documents:  probe.Int(m, "documents"),
		Unfinished: probe.Int(m, "unfinished_documents", "unfinished"),
		Users:      probe.Int(m, "users"),
	}
	prev, ok := probe.Object(m, "previous_period")
	if !ok {
		return snap
	}
	snap.CompaniesChange = format.CalcChange(float64(snap.Companies), probe.Float(prev, "companies"))
	snap.DocumentsChange = format.CalcChange(float64(snap.Documents), probe.Float(prev, "documents"))
	snap.UnfinishedChange = format.CalcChange(float64(snap.Unfinished), probe.Float(prev, "unfinished_documents", "unfinished"))
	snap.UsersChange = format.CalcChange(float64(snap.Users), probe.Float(prev, "users"))
	return snap
}

var (
	labelKeys = []string{"label", "date", "period", "name", "month", "week", "day", "hour"}
	valueKeys = []string{"value", "count", "total", "amount"}
)

// Points maps a {data:[{label,value}]} series, keeping backend order.
// valueKeys overrides the field read for the value.
func Points(resp any, valueField ...string) []models.TimeSeriesPoint {
	vk := valueKeys
	if len(valueField) > 0 {
		vk = valueField
	}
	rows := Records(resp, "data", "series", "points")
	out := make([]models.TimeSeriesPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TimeSeriesPoint{
			Label: probe.String(r, labelKeys...),
			Value: probe.Float(r, vk...),
		})
	}
	return out
}

var (
	breakdownNameKeys  = []string{"name", "label", "state", "city", "type", "status", "feature", "device", "day"}
	breakdownCountKeys = []string{"count", "value", "total", "users", "company_count", "proposal_count", "usage_count"}
)

// Breakdowns maps a list of labelled counts. A missing percentage is
// computed from the list total.
func Breakdowns(resp any, listKeys ...string) []models.Breakdown {
	if len(listKeys) == 0 {
		listKeys = []string{"data", "items"}
	}
	rows := Records(resp, listKeys...)
	out := make([]models.Breakdown, 0, len(rows))
	var total float64
	for _, r := range rows {
		b := models.Breakdown{
			Name:  probe.String(r, breakdownNameKeys...),
			Count: probe.Float(r, breakdownCountKeys...),
		}
		if b.Name == "" {
			b.Name = "Unknown"
		}
		if pct, ok := probe.Number(r, "percentage", "percent"); ok {
			b.Percentage = pct
		} else {
			b.Percentage = -1
		}
		total += b.Count
		out = append(out, b)
	}
	for i := range out {
		if out[i].Percentage >= 0 {
			continue
		}
		out[i].Percentage = 0
		if total > 0 {
			out[i].Percentage = math.Round(out[i].Count / total * 100)
		}
	}
	return out
}

// Companies maps /companies/detailed into roster rows.
func Companies(resp any, now time.Time) []models.CompanyRecord {
	rows := Records(resp, "companies", "data")
	out := make([]models.CompanyRecord, 0, len(rows))
	for _, r := range rows {
		c := models.CompanyRecord{
			ID:               probe.String(r, "id"),
			Name:             probe.String(r, "name"),
			Email:            probe.String(r, "email"),
			Phone:            probe.String(r, "phone"),
			Website:          probe.String(r, "website"),
			Address:          address(r),
			SubscriptionTier: probe.String(r, "subscription_tier"),
			SubscriptionID:   int(probe.Int(r, "core_subscriptions_id", "subscription_id")),
			DocumentsCreated: probe.Int(r, "proposal_count", "documents_created"),
			LastActivity:     probe.Time(r, "last_activity"),
			UsersCount:       probe.Int(r, "user_count", "users_count"),
			EngagementScore:  probe.Float(r, "engagement_score"),
			CreatedAt:        probe.Time(r, "created_at"),
		}
		if c.Name == "" {
			c.Name = "Unknown Company"
		}
		if c.SubscriptionTier == "" {
			c.SubscriptionTier = "Basic"
		}
		c.LastActivitySince = format.RelativeTime(c.LastActivity, now, "Never")
		out = append(out, c)
	}
	return out
}

// address joins "street, city, state zip", dropping empty parts.
func address(r map[string]any) string {
	stateZip := strings.TrimSpace(probe.String(r, "state") + " " + probe.String(r, "zip"))
	parts := make([]string, 0, 3)
	for _, p := range []string{probe.String(r, "address"), probe.String(r, "city"), stateZip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
