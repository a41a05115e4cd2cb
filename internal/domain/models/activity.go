// internal/domain/models/activity.go
package models

import "time"

// Activity kinds reported by the analytics backend.
const (
	ActivityCompanyCreated   = "company_created"
	ActivityProposalCreated  = "proposal_created"
	ActivityProposalSent     = "proposal_sent"
	ActivityProposalApproved = "proposal_approved"
	ActivityUserLogin        = "user_login"
	ActivityDocumentEdited   = "document_edited"
	ActivityCompanyUpdated   = "company_updated"
)

// ActivityItem is one row of the recent-activity feed.
type ActivityItem struct {
	ID          string
	Kind        string
	Icon        string
	Title       string
	Description string
	Timestamp   *time.Time
	TimeAgo     string
	Status      string
}

// Insight is one card in the quick-insights panel.
type Insight struct {
	Title       string
	Value       string
	Description string
	Progress    float64
	Color       string
}
