package dashboard

import (
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/domain/models"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestMetricCards_OrderAndLabels(t *testing.T) {
	cards := metricCards(models.MetricsSnapshot{
		Companies: 1234, Documents: 50, Unfinished: 7, Users: 0,
		CompaniesChange: 12, DocumentsChange: -5,
	})

	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	want := []string{"Companies Created", "Documents Created", "Unfinished Documents", "Active Users"}
	for i, c := range cards {
		if c.Title != want[i] {
			t.Errorf("card %d: got %q, want %q", i, c.Title, want[i])
		}
	}
	if cards[0].Value != "1,234" || cards[0].Change != "+12%" || !cards[0].Increase {
		t.Errorf("companies card = %+v", cards[0])
	}
	if cards[1].Change != "-5%" || cards[1].Increase {
		t.Errorf("documents card = %+v", cards[1])
	}
	if cards[3].Color != "bg-purple-500" {
		t.Errorf("users color = %q", cards[3].Color)
	}
}

func TestActivityItems_MapsKnownAndUnknownKinds(t *testing.T) {
	resp := map[string]any{"activities": []any{
		map[string]any{"id": float64(7), "type": "proposal_sent", "entity_name": "Acme <b>Roofing</b>", "created_at": "2024-05-10T11:55:00Z"},
		map[string]any{"type": "mystery", "action": "Exported data", "status": "failed"},
		map[string]any{"type": "user_login", "description": "Signed in", "created_at": "2024-05-08T12:00:00Z"},
	}}

	items := activityItems(resp, now)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	sent := items[0]
	if sent.ID != "7" || sent.Title != "Proposal sent" || sent.Icon != "send" || sent.Status != "completed" {
		t.Errorf("proposal_sent mapped to %+v", sent)
	}
	if sent.Description != "Acme Roofing" {
		t.Errorf("description should be sanitized, got %q", sent.Description)
	}
	if sent.TimeAgo != "5 minutes ago" {
		t.Errorf("TimeAgo = %q", sent.TimeAgo)
	}

	unknown := items[1]
	if unknown.ID != "1" || unknown.Title != "Exported data" || unknown.Icon != "file-text" || unknown.Status != "failed" {
		t.Errorf("unknown kind mapped to %+v", unknown)
	}
	if unknown.TimeAgo != "Just now" {
		t.Errorf("missing timestamp should read Just now, got %q", unknown.TimeAgo)
	}

	if items[2].TimeAgo != "2 days ago" {
		t.Errorf("TimeAgo = %q", items[2].TimeAgo)
	}
}

func TestActivityItems_CapsAtTen(t *testing.T) {
	var rows []any
	for i := 0; i < 25; i++ {
		rows = append(rows, map[string]any{"type": "user_login"})
	}
	if got := len(activityItems(map[string]any{"data": rows}, now)); got != maxActivity {
		t.Fatalf("expected %d items, got %d", maxActivity, got)
	}
}

func TestBuildInsights_OrderAndCap(t *testing.T) {
	src := insightSources{
		Peak: map[string]any{"peak_hour": float64(14), "peak_percentage": float64(23.5)},
		Geo:  map[string]any{"top_state": map[string]any{"name": "Texas", "percentage": float64(18)}},
		Generated: map[string]any{"insights": []any{
			map[string]any{"title": "Conversion", "value": "12%", "score": float64(140)},
			map[string]any{"description": "no title"},
			map[string]any{"title": "Dropped"},
		}},
	}

	got := buildInsights(src)
	if len(got) != maxInsights {
		t.Fatalf("expected %d insights, got %d", maxInsights, len(got))
	}
	if got[0].Title != "Peak Usage Hours" || got[0].Value != "14:00 - 16:00" || got[0].Description != "23.5% of daily activity" {
		t.Errorf("peak insight = %+v", got[0])
	}
	if got[1].Value != "Texas" || got[1].Description != "18% of total users" {
		t.Errorf("geo insight = %+v", got[1])
	}
	if got[2].Progress != 100 {
		t.Errorf("progress should clamp to 100, got %v", got[2].Progress)
	}
	if got[2].Color != "bg-blue-500" || got[3].Color != "bg-green-500" {
		t.Errorf("generated colors = %q, %q", got[2].Color, got[3].Color)
	}
	if got[3].Title != "Insight" || got[3].Value != "N/A" || got[3].Progress != 50 {
		t.Errorf("defaults = %+v", got[3])
	}
}

func TestBuildInsights_ToleratesMissingSources(t *testing.T) {
	got := buildInsights(insightSources{
		Generated: map[string]any{"insights": []any{map[string]any{"title": "Only one"}}},
	})
	if len(got) != 1 || got[0].Title != "Only one" {
		t.Fatalf("got %+v", got)
	}
	if len(buildInsights(insightSources{})) != 0 {
		t.Fatal("no sources should yield no insights")
	}
}
