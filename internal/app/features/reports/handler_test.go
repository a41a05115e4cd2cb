package reports_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/app/features/reports"
	"github.com/dalemusser/ezdash/internal/testutil"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newHandler(t *testing.T, replies map[string]testutil.Reply) (*reports.Handler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t, replies)
	return reports.NewHandler(testutil.PageDeps(t, backend.URL(), now)), backend
}

func render(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func TestServeAnalytics_RequestsEverySource(t *testing.T) {
	h, backend := newHandler(t, nil)

	req := testutil.NewAuthenticatedRequest(t, "GET", "/analytics?range=monthly", testutil.DefaultUser())
	render(func() { h.ServeAnalytics(testutil.NewRecorder(), req) })

	for _, path := range []string{
		"/metrics/companies", "/metrics/proposals", "/analytics/documents/types",
		"/analytics/trends/growth", "/analytics/revenue", "/analytics/compare",
	} {
		if len(backend.Hits(path)) != 1 {
			t.Errorf("%s requested %d times", path, len(backend.Hits(path)))
		}
	}
	cmp := backend.Hits("/analytics/compare")
	if len(cmp) == 1 && (cmp[0].Get("current_period") != "this_month" || cmp[0].Get("compare_to") != "last_month") {
		t.Errorf("compare query = %v", cmp[0])
	}
	if q := backend.Hits("/metrics/companies"); len(q) == 1 && q[0].Get("group_by") != "day" {
		t.Errorf("group_by = %q", q[0].Get("group_by"))
	}
}

func TestServeAnalytics_ExpiredSessionRedirects(t *testing.T) {
	h, _ := newHandler(t, map[string]testutil.Reply{
		"/analytics/revenue": testutil.Status(http.StatusUnauthorized),
	})

	req := testutil.NewAuthenticatedRequest(t, "GET", "/analytics", testutil.DefaultUser())
	req.Header.Set("Accept", "text/html")
	rec := testutil.NewRecorder()
	h.ServeAnalytics(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)
}

func TestServeGeographic_PassesState(t *testing.T) {
	h, backend := newHandler(t, map[string]testutil.Reply{
		"/analytics/geographic":        testutil.JSON(map[string]any{"states": []any{map[string]any{"name": "Texas", "count": 4}}}),
		"/analytics/geographic/cities": testutil.JSON(map[string]any{"cities": []any{}}),
	})

	req := testutil.NewAuthenticatedRequest(t, "GET", "/geographic?state=Texas", testutil.DefaultUser())
	render(func() { h.ServeGeographic(testutil.NewRecorder(), req) })

	hits := backend.Hits("/analytics/geographic/cities")
	if len(hits) != 1 || hits[0].Get("state") != "Texas" || hits[0].Get("limit") != "20" {
		t.Fatalf("city hits = %v", hits)
	}
}

func TestServeUsage_UsesLastThirtyDays(t *testing.T) {
	h, backend := newHandler(t, nil)

	req := testutil.NewAuthenticatedRequest(t, "GET", "/usage", testutil.DefaultUser())
	render(func() { h.ServeUsage(testutil.NewRecorder(), req) })

	hits := backend.Hits("/analytics/sessions")
	if len(hits) != 1 || hits[0].Get("start_date") != "2024-04-11T00:00:00.000Z" {
		t.Fatalf("session hits = %v", hits)
	}
	if peaks := backend.Hits("/analytics/usage/peaks"); len(peaks) != 1 || peaks[0].Get("period") != "last_30_days" {
		t.Fatalf("peak hits = %v", peaks)
	}
}

func TestServeDocuments_DefaultsToMonthly(t *testing.T) {
	h, backend := newHandler(t, nil)

	req := testutil.NewAuthenticatedRequest(t, "GET", "/documents", testutil.DefaultUser())
	render(func() { h.ServeDocuments(testutil.NewRecorder(), req) })

	hits := backend.Hits("/analytics/documents/types")
	if len(hits) != 1 || hits[0].Get("start_date") != "2024-04-11T00:00:00.000Z" {
		t.Fatalf("type hits = %v", hits)
	}
}

func TestServeAnalyticsExport_WritesCSV(t *testing.T) {
	h, _ := newHandler(t, map[string]testutil.Reply{
		"/metrics/companies": testutil.JSON(map[string]any{"data": []any{
			map[string]any{"date": "2024-05-09", "count": 2},
			map[string]any{"date": "2024-05-10", "count": 5},
		}}),
	})

	req := testutil.NewAuthenticatedRequest(t, "GET", "/analytics/export.csv", testutil.DefaultUser())
	rec := testutil.NewRecorder()
	h.ServeAnalyticsExport(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "count,date")
	rec.AssertContains(t, "5,2024-05-10")
}
