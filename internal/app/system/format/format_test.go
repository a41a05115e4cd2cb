package format

import (
	"testing"
	"time"
)

func TestCalcChange(t *testing.T) {
	cases := []struct {
		cur, prev float64
		want      int
	}{
		{120, 100, 20},
		{80, 100, -20},
		{5, 0, 0},
		{0, 0, 0},
		{101, 300, -66},
		{1, 3, -67},
		{1, 8, -87},
		{3, 8, -62},
		{3, 2, 50},
	}
	for _, c := range cases {
		if got := CalcChange(c.cur, c.prev); got != c.want {
			t.Errorf("CalcChange(%v, %v) = %d, want %d", c.cur, c.prev, got, c.want)
		}
	}
}

func TestChangeLabel(t *testing.T) {
	if got := ChangeLabel(20); got != "+20%" {
		t.Errorf("got %q", got)
	}
	if got := ChangeLabel(-7); got != "-7%" {
		t.Errorf("got %q", got)
	}
	if got := ChangeLabel(0); got != "" {
		t.Errorf("zero change should be hidden, got %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	cases := []struct {
		name string
		ts   *time.Time
		want string
	}{
		{"30s", at(30 * time.Second), "Just now"},
		{"90s", at(90 * time.Second), "1 minutes ago"},
		{"2h", at(2 * time.Hour), "2 hours ago"},
		{"3d", at(72 * time.Hour), "3 days ago"},
		{"10d", at(240 * time.Hour), "Jun 5, 2024"},
		{"future", at(-time.Hour), "Just now"},
		{"missing", nil, "Never"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RelativeTime(c.ts, now, "Never"); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestTrialDaysLeft(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	if d, ok := TrialDaysLeft(now.AddDate(0, 0, -14), now); !ok || d != 0 {
		t.Errorf("14 days ago: got %d ok=%v, want 0 true", d, ok)
	}
	if _, ok := TrialDaysLeft(now.AddDate(0, 0, -15), now); ok {
		t.Error("15 days ago: expected expired")
	}
	if d, ok := TrialDaysLeft(now, now); !ok || d != 14 {
		t.Errorf("today: got %d ok=%v, want 14 true", d, ok)
	}
}

func TestTrialLabel(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -20)
	recent := now.AddDate(0, 0, -4)

	if got := TrialLabel(&old, now); got != "Expired" {
		t.Errorf("got %q", got)
	}
	if got := TrialLabel(&recent, now); got != "10" {
		t.Errorf("got %q", got)
	}
	if got := TrialLabel(nil, now); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestCount(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		if got := Count(in); got != want {
			t.Errorf("Count(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDecimal(t *testing.T) {
	if got := Decimal(2.345, 1); got != "2.3" {
		t.Errorf("Decimal(2.345, 1) = %q", got)
	}
	if got := Decimal(3, 1); got != "3.0" {
		t.Errorf("Decimal(3, 1) = %q", got)
	}
}
