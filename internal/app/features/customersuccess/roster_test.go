package customersuccess

import (
	"testing"
	"time"

	"github.com/dalemusser/ezdash/internal/domain/models"
)

func ts(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func sample() []models.CompanyRecord {
	return []models.CompanyRecord{
		{ID: "1", Name: "beta Roofing", Email: "ops@beta.io", SubscriptionID: 1, CreatedAt: ts("2024-03-01"), DocumentsCreated: 5},
		{ID: "2", Name: "Alpha Builders", Email: "hello@alpha.com", SubscriptionID: 2, CreatedAt: ts("2024-01-15"), DocumentsCreated: 9},
		{ID: "3", Name: "Gamma", Email: "BETA-contact@gamma.net", SubscriptionID: 3, DocumentsCreated: 5},
	}
}

func ids(rows []models.CompanyRecord) string {
	s := ""
	for _, r := range rows {
		s += r.ID
	}
	return s
}

func TestFilter_SearchMatchesNameOrEmail(t *testing.T) {
	if got := ids(Filter(sample(), "beta", "all")); got != "13" {
		t.Errorf("search beta = %s, want 13", got)
	}
	if got := ids(Filter(sample(), "ALPHA", "")); got != "2" {
		t.Errorf("case-insensitive search = %s, want 2", got)
	}
	if got := ids(Filter(sample(), "  ", "all")); got != "123" {
		t.Errorf("blank search = %s, want all rows", got)
	}
}

func TestFilter_AccentsAreSignificant(t *testing.T) {
	rows := []models.CompanyRecord{{ID: "1", Name: "Café Roma"}, {ID: "2", Name: "CAFE Nord"}}
	if got := ids(Filter(rows, "cafe", "all")); got != "2" {
		t.Errorf("search cafe = %s, want 2", got)
	}
	if got := ids(Filter(rows, "café", "all")); got != "1" {
		t.Errorf("search café = %s, want 1", got)
	}
}

func TestFilter_Subscription(t *testing.T) {
	if got := ids(Filter(sample(), "", "trial")); got != "1" {
		t.Errorf("trial = %s", got)
	}
	if got := ids(Filter(sample(), "", "PAID")); got != "23" {
		t.Errorf("paid = %s", got)
	}
	if got := ids(Filter(sample(), "", "bogus")); got != "123" {
		t.Errorf("unknown filter = %s", got)
	}
}

func TestSort_Keys(t *testing.T) {
	cases := []struct {
		key, dir, want string
	}{
		{"name", "asc", "213"},
		{"name", "desc", "312"},
		{"email", "asc", "321"},
		{"created_at", "asc", "321"},
		{"created_at", "desc", "123"},
		{"documents_created", "asc", "132"},
		{"documents_created", "desc", "213"},
		{"nonsense", "sideways", "213"},
	}
	for _, tc := range cases {
		if got := ids(Sort(sample(), tc.key, tc.dir)); got != tc.want {
			t.Errorf("Sort(%s,%s) = %s, want %s", tc.key, tc.dir, got, tc.want)
		}
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	rows := sample()
	_ = Sort(rows, "name", "desc")
	if ids(rows) != "123" {
		t.Fatalf("input reordered: %s", ids(rows))
	}
}

func TestNextSort(t *testing.T) {
	if k, d := NextSort("name", "asc", "name"); k != "name" || d != "desc" {
		t.Errorf("toggle = %s %s", k, d)
	}
	if k, d := NextSort("name", "desc", "name"); k != "name" || d != "asc" {
		t.Errorf("toggle back = %s %s", k, d)
	}
	if k, d := NextSort("name", "desc", "email"); k != "email" || d != "asc" {
		t.Errorf("new key = %s %s", k, d)
	}
}
