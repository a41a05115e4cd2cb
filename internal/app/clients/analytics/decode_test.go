package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func decoded(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSummary_ChangeOnlyWithPreviousPeriod(t *testing.T) {
	snap := Summary(decoded(t, `{"companies":120,"documents":40,"unfinished":5,"users":300}`))
	require.EqualValues(t, 120, snap.Companies)
	require.EqualValues(t, 5, snap.Unfinished)
	require.Zero(t, snap.CompaniesChange)

	snap = Summary(decoded(t, `{"companies":120,"documents":40,"unfinished_documents":6,"users":300,
		"previous_period":{"companies":100,"documents":0,"unfinished":4,"users":400}}`))
	require.EqualValues(t, 6, snap.Unfinished)
	require.Equal(t, 20, snap.CompaniesChange)
	require.Equal(t, 0, snap.DocumentsChange)
	require.Equal(t, 50, snap.UnfinishedChange)
	require.Equal(t, -25, snap.UsersChange)
}

func TestSummary_WrongShapeIsZero(t *testing.T) {
	require.Zero(t, Summary(decoded(t, `[1,2]`)))
	require.Zero(t, Summary(nil))
}

func TestPoints_KeepsOrder(t *testing.T) {
	pts := Points(decoded(t, `{"data":[{"label":"10/18","value":100},{"label":"10/19","value":"150"},{"date":"10/20"}]}`))
	require.Len(t, pts, 3)
	require.Equal(t, "10/18", pts[0].Label)
	require.Equal(t, 150.0, pts[1].Value)
	require.Equal(t, "10/20", pts[2].Label)
	require.Zero(t, pts[2].Value)
}

func TestBreakdowns_ComputesMissingPercentage(t *testing.T) {
	bs := Breakdowns(decoded(t, `[{"name":"Quotes","count":3},{"type":"Invoices","count":1},{"count":0}]`))
	require.Len(t, bs, 3)
	require.Equal(t, 75.0, bs[0].Percentage)
	require.Equal(t, "Invoices", bs[1].Name)
	require.Equal(t, 25.0, bs[1].Percentage)
	require.Equal(t, "Unknown", bs[2].Name)

	bs = Breakdowns(decoded(t, `{"states":[{"state":"CA","company_count":45,"percentage":32}]}`), "states")
	require.Equal(t, 32.0, bs[0].Percentage)
	require.Equal(t, 45.0, bs[0].Count)
}

func TestCompanies_Defaults(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rows := Companies(decoded(t, `{"companies":[
		{"id":1,"name":"Acme","email":"ops@acme.io","address":"1 Main","city":"Austin","state":"TX","zip":"78701",
		 "core_subscriptions_id":1,"proposal_count":9,"user_count":3,"engagement_score":71.5,
		 "created_at":"2026-10-10T00:00:00Z","last_activity":"2026-10-19T10:00:00Z"},
		{"id":"b2"}
	]}`), now)
	require.Len(t, rows, 2)

	a := rows[0]
	require.Equal(t, "1", a.ID)
	require.Equal(t, "1 Main, Austin, TX 78701", a.Address)
	require.True(t, a.IsTrial())
	require.EqualValues(t, 9, a.DocumentsCreated)
	require.EqualValues(t, 3, a.UsersCount)
	require.Equal(t, "2 hours ago", a.LastActivitySince)

	b := rows[1]
	require.Equal(t, "Unknown Company", b.Name)
	require.Equal(t, "Basic", b.SubscriptionTier)
	require.Equal(t, "", b.Address)
	require.Equal(t, "Never", b.LastActivitySince)
	require.False(t, b.IsTrial())
}
