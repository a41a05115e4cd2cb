// internal/domain/models/metrics.go
package models

// MetricsSnapshot holds the headline counts for one time range plus the
// percentage change against the previous period of equal length. The
// change fields stay 0 when the backend sends no previous_period.
type MetricsSnapshot struct {
	Companies  int64
	Documents  int64
	Unfinished int64
	Users      int64

	CompaniesChange  int
	DocumentsChange  int
	UnfinishedChange int
	UsersChange      int
}

// TimeSeriesPoint is one point of a line or bar chart. Points keep the
// order the backend returned them in.
type TimeSeriesPoint struct {
	Label string
	Value float64
}

// Series is a named chart series. Failed marks a series whose fetch
// errored so the page can render the rest of the batch.
type Series struct {
	Name   string
	Title  string
	Points []TimeSeriesPoint
	Failed bool
}

// Max returns the largest value in the series, or 0 if it is empty.
func (s Series) Max() float64 {
	var m float64
	for _, p := range s.Points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

// Breakdown is a labelled share of a whole (states, document types,
// proposal statuses, features).
type Breakdown struct {
	Name       string
	Count      float64
	Percentage float64
}
