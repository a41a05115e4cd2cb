// internal/app/features/customersuccess/roster.go
package customersuccess

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/ezdash/internal/domain/models"
)

// Subscription filter values.
const (
	SubscriptionAll   = "all"
	SubscriptionTrial = "trial"
	SubscriptionPaid  = "paid"
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Sortable roster columns.
const (
	SortName             = "name"
	SortEmail            = "email"
	SortCreatedAt        = "created_at"
	SortDocumentsCreated = "documents_created"
	SortUsersCount       = "users_count"
	SortEngagementScore  = "engagement_score"
)

var comparators = map[string]func(a, b models.CompanyRecord) int{
	SortName:  func(a, b models.CompanyRecord) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) },
	SortEmail: func(a, b models.CompanyRecord) int { return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email)) },
	SortCreatedAt: func(a, b models.CompanyRecord) int {
		return cmp.Compare(unixMilli(a.CreatedAt), unixMilli(b.CreatedAt))
	},
	SortDocumentsCreated: func(a, b models.CompanyRecord) int { return cmp.Compare(a.DocumentsCreated, b.DocumentsCreated) },
	SortUsersCount:       func(a, b models.CompanyRecord) int { return cmp.Compare(a.UsersCount, b.UsersCount) },
	SortEngagementScore:  func(a, b models.CompanyRecord) int { return cmp.Compare(a.EngagementScore, b.EngagementScore) },
}

// unixMilli orders a missing timestamp before every real one.
func unixMilli(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

// NormalizeSubscription maps unknown filter values to all.
func NormalizeSubscription(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case SubscriptionTrial, SubscriptionPaid:
		return s
	}
	return SubscriptionAll
}

// NormalizeSort maps unknown keys to name and unknown directions to asc.
func NormalizeSort(key, dir string) (string, string) {
	if _, ok := comparators[key]; !ok {
		key = SortName
	}
	if dir != Desc {
		dir = Asc
	}
	return key, dir
}

// Filter keeps rows whose name or email contains search (case
// insensitive) and that match the subscription filter.
func Filter(rows []models.CompanyRecord, search, subscription string) []models.CompanyRecord {
	needle := strings.ToLower(strings.TrimSpace(search))
	sub := NormalizeSubscription(subscription)

	out := make([]models.CompanyRecord, 0, len(rows))
	for _, c := range rows {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) && !strings.Contains(strings.ToLower(c.Email), needle) {
			continue
		}
		switch {
		case sub == SubscriptionTrial && !c.IsTrial():
			continue
		case sub == SubscriptionPaid && c.IsTrial():
			continue
		}
		out = append(out, c)
	}
	return out
}

// Sort returns a stably sorted copy of rows.
func Sort(rows []models.CompanyRecord, key, dir string) []models.CompanyRecord {
	key, dir = NormalizeSort(key, dir)
	less := comparators[key]

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b models.CompanyRecord) int {
		if dir == Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return out
}

// NextSort is the sort a column header link should request: the same
// key toggles direction, a new key starts ascending.
func NextSort(curKey, curDir, key string) (string, string) {
	if key == curKey && curDir == Asc {
		return key, Desc
	}
	return key, Asc
}
