// internal/domain/models/company.go
package models

import "time"

// TrialSubscriptionID is the subscription identifier the backend uses
// for time-limited trial accounts.
const TrialSubscriptionID = 1

// TrialDays is the length of the trial window counted from creation.
const TrialDays = 14

// CompanyRecord is one customer row in the Customer Success roster.
type CompanyRecord struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	Website           string
	Address           string
	SubscriptionTier  string
	SubscriptionID    int
	DocumentsCreated  int64
	LastActivity      *time.Time
	LastActivitySince string
	UsersCount        int64
	EngagementScore   float64
	CreatedAt         *time.Time
}

// IsTrial reports whether the company is on the trial subscription.
func (c CompanyRecord) IsTrial() bool {
	return c.SubscriptionID == TrialSubscriptionID
}
