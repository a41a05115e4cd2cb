package reports

import (
	"testing"

	"github.com/dalemusser/ezdash/internal/domain/models"
)

func TestComparisons_ComputesMissingChange(t *testing.T) {
	rows := comparisons(map[string]any{"metrics": []any{
		map[string]any{"metric": "companies", "current": float64(120), "previous": float64(100)},
		map[string]any{"name": "users", "current": float64(80), "previous": float64(100), "change": float64(-25)},
		map[string]any{"current": float64(5)},
	}})

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Change != "+20%" || !rows[0].Increase {
		t.Errorf("companies = %+v", rows[0])
	}
	if rows[1].Change != "-25%" || rows[1].Increase {
		t.Errorf("backend change should win, got %+v", rows[1])
	}
	if rows[2].Metric != "Unknown" || rows[2].Previous != "0" {
		t.Errorf("defaults = %+v", rows[2])
	}
}

func TestCompanyStats_AveragesOverDays(t *testing.T) {
	stats := companyStats([]models.TimeSeriesPoint{{Value: 10}, {Value: 4}, {Value: 2}}, 7)
	if stats[0].Value != "16" {
		t.Errorf("total = %q", stats[0].Value)
	}
	if stats[1].Value != "2.3" {
		t.Errorf("average = %q", stats[1].Value)
	}
}

func TestTopState_PrefersBackendValue(t *testing.T) {
	rows := []models.Breakdown{{Name: "Ohio", Count: 3}, {Name: "Texas", Count: 9}}

	if got := topState(map[string]any{"top_state": map[string]any{"name": "California"}}, rows); got != "California" {
		t.Errorf("got %q, want California", got)
	}
	if got := topState(map[string]any{}, rows); got != "Texas" {
		t.Errorf("got %q, want Texas", got)
	}
	if got := topState(nil, nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestStateOptions_MarksSelection(t *testing.T) {
	opts := stateOptions([]string{"Ohio", "Texas"}, "texas")
	if len(opts) != 3 || opts[0].Selected || !opts[2].Selected {
		t.Fatalf("opts = %+v", opts)
	}
	if !stateOptions(nil, "")[0].Selected {
		t.Fatal("All states should be selected by default")
	}
}

func TestPeakStats(t *testing.T) {
	stats := peakStats(map[string]any{"peak_hour": float64(9), "peak_day": "Tuesday", "peak_percentage": float64(12.26)})
	if len(stats) != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].Value != "09:00" || stats[1].Value != "Tuesday" || stats[2].Value != "12.3%" {
		t.Errorf("stats = %+v", stats)
	}
	if len(peakStats(nil)) != 0 {
		t.Error("no data should yield no stats")
	}
}

func TestList_Limits(t *testing.T) {
	rows := []models.Breakdown{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	if got := list("t", rows, false, 2); len(got.Bars) != 2 {
		t.Fatalf("bars = %d", len(got.Bars))
	}
	if got := list("t", rows, true, 0); len(got.Bars) != 3 || !got.Failed {
		t.Fatalf("list = %+v", got)
	}
}
