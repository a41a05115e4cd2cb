package analytics

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/ezdash/internal/app/system/timeranges"
)

// params is url.Values with the helpers the endpoints share.
type params url.Values

func (p params) set(k, v string) {
	url.Values(p).Set(k, v)
}

// list JSON-encodes v into the query, the way the backend expects
// array parameters.
func (p params) list(k string, v any) {
	b, _ := json.Marshal(v)
	url.Values(p).Set(k, string(b))
}

// dates adds start_date/end_date. Zero times are left out.
func (p params) dates(start, end time.Time) {
	if !start.IsZero() {
		p.set("start_date", timeranges.ISO(start))
	}
	if !end.IsZero() {
		p.set("end_date", timeranges.ISO(end))
	}
}

func (p params) limit(n int) {
	p.set("limit", strconv.Itoa(n))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Dashboard metrics                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// MetricsSummary fetches the headline counts for [start, end].
func (c *Client) MetricsSummary(ctx context.Context, start, end time.Time) (any, error) {
	p := params{}
	p.list("metrics", []string{"companies", "documents", "users", "sessions"})
	p.dates(start, end)
	return c.Request(ctx, "/metrics/summary", url.Values(p))
}

// CompaniesMetrics fetches company counts grouped by groupBy (default month).
func (c *Client) CompaniesMetrics(ctx context.Context, start, end time.Time, groupBy string) (any, error) {
	if groupBy == "" {
		groupBy = "month"
	}
	p := params{}
	p.dates(start, end)
	p.set("group_by", groupBy)
	return c.Request(ctx, "/metrics/companies", url.Values(p))
}

// ProposalsMetrics fetches proposal counts grouped by status.
func (c *Client) ProposalsMetrics(ctx context.Context, start, end time.Time) (any, error) {
	p := params{}
	p.dates(start, end)
	p.set("include_status", "true")
	p.set("group_by", "status")
	return c.Request(ctx, "/metrics/proposals", url.Values(p))
}

// UserGrowth fetches one user-growth series at the given interval.
func (c *Client) UserGrowth(ctx context.Context, metric string, start, end time.Time, interval string) (any, error) {
	p := params{}
	p.set("metric", metric)
	p.dates(start, end)
	p.set("interval", interval)
	return c.Request(ctx, "/analytics/users/growth", url.Values(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Activity and sessions                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// RecentActivity fetches the newest activity events.
func (c *Client) RecentActivity(ctx context.Context, limit int) (any, error) {
	if limit <= 0 {
		limit = 50
	}
	p := params{}
	p.limit(limit)
	p.list("include", []string{"proposals", "users", "companies"})
	p.set("order_by", "created_at_desc")
	return c.Request(ctx, "/activity/recent", url.Values(p))
}

// SessionAnalytics fetches session counts by hour of day.
func (c *Client) SessionAnalytics(ctx context.Context, start, end time.Time) (any, error) {
	p := params{}
	p.dates(start, end)
	p.set("group_by", "hour_of_day")
	return c.Request(ctx, "/analytics/sessions", url.Values(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Geography                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// GeographicDistribution fetches per-state totals.
func (c *Client) GeographicDistribution(ctx context.Context) (any, error) {
	p := params{}
	p.set("group_by", "state")
	p.list("include_metrics", []string{"company_count", "proposal_count", "revenue"})
	return c.Request(ctx, "/analytics/geographic", url.Values(p))
}

// CityAnalytics fetches the top cities, optionally within one state.
func (c *Client) CityAnalytics(ctx context.Context, state string, limit int) (any, error) {
	if limit <= 0 {
		limit = 20
	}
	p := params{}
	if state != "" {
		p.set("state", state)
	}
	p.limit(limit)
	p.set("order_by", "proposal_count_desc")
	return c.Request(ctx, "/analytics/geographic/cities", url.Values(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Documents and proposals                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ProposalStatus fetches the proposal status split for [start, end].
func (c *Client) ProposalStatus(ctx context.Context, start, end time.Time) (any, error) {
	p := params{}
	p.dates(start, end)
	return c.Request(ctx, "/analytics/proposals/status", url.Values(p))
}

// ProposalPerformance fetches monthly approval metrics.
func (c *Client) ProposalPerformance(ctx context.Context) (any, error) {
	p := params{}
	p.list("metrics", []string{"approval_rate", "avg_time_to_approval", "generation_count"})
	p.set("group_by", "month")
	return c.Request(ctx, "/analytics/proposals/performance", url.Values(p))
}

// DocumentTypes fetches the document type split for [start, end].
func (c *Client) DocumentTypes(ctx context.Context, start, end time.Time) (any, error) {
	p := params{}
	p.dates(start, end)
	return c.Request(ctx, "/analytics/documents/types", url.Values(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Customer success                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// CompaniesDetailed fetches the company roster, most recently active first.
func (c *Client) CompaniesDetailed(ctx context.Context, limit int) (any, error) {
	if limit <= 0 {
		limit = 100
	}
	p := params{}
	p.list("include", []string{"proposal_count", "user_count", "last_activity"})
	p.limit(limit)
	p.set("order_by", "last_activity_desc")
	return c.Request(ctx, "/companies/detailed", url.Values(p))
}

// CompanyEngagement fetches engagement metrics for the given companies.
func (c *Client) CompanyEngagement(ctx context.Context, ids []string) (any, error) {
	if ids == nil {
		ids = []string{}
	}
	p := params{}
	p.list("company_ids", ids)
	p.list("metrics", []string{"login_frequency", "proposal_creation_rate", "approval_rate"})
	return c.Request(ctx, "/analytics/companies/engagement", url.Values(p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Usage, trends, revenue                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// PeakUsage fetches activity by hour and weekday (default last_30_days).
func (c *Client) PeakUsage(ctx context.Context, period string) (any, error) {
	if period == "" {
		period = "last_30_days"
	}
	p := params{}
	p.set("period", period)
	p.set("group_by", "hour_and_day")
	return c.Request(ctx, "/analytics/usage/peaks", url.Values(p))
}

// FeatureUsage fetches weekly usage of the main product features.
func (c *Client) FeatureUsage(ctx context.Context) (any, error) {
	p := params{}
	p.list("features", []string{"proposal_generation", "audio_transcription", "pdf_export"})
	p.set("group_by", "week")
	return c.Request(ctx, "/analytics/features", url.Values(p))
}

// GrowthTrends fetches twelve months of growth against the previous period.
func (c *Client) GrowthTrends(ctx context.Context) (any, error) {
	p := params{}
	p.list("metrics", []string{"new_companies", "new_users", "proposals_created"})
	p.set("period", "last_12_months")
	p.set("compare_to", "previous_period")
	return c.Request(ctx, "/analytics/trends/growth", url.Values(p))
}

// RevenueAnalytics fetches monthly approved-proposal value.
func (c *Client) RevenueAnalytics(ctx context.Context) (any, error) {
	p := params{}
	p.set("group_by", "month")
	p.list("include", []string{"approved_proposal_value", "company_size_breakdown"})
	return c.Request(ctx, "/analytics/revenue", url.Values(p))
}

// Insights asks the backend for generated insight cards.
func (c *Client) Insights(ctx context.Context, limit int) (any, error) {
	if limit <= 0 {
		limit = 5
	}
	p := params{}
	p.list("focus_areas", []string{"anomalies", "trends", "opportunities"})
	p.limit(limit)
	return c.Request(ctx, "/insights/generate", url.Values(p))
}

// ComparativeAnalytics compares two named periods across all metrics.
func (c *Client) ComparativeAnalytics(ctx context.Context, current, compareTo string) (any, error) {
	p := params{}
	p.set("current_period", current)
	p.set("compare_to", compareTo)
	p.list("metrics", []string{"all"})
	return c.Request(ctx, "/analytics/compare", url.Values(p))
}
