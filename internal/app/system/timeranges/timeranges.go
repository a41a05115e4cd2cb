// Package timeranges maps the named Time Range selector to concrete
// start/end instants in the server's local time.
package timeranges

import (
	"strings"
	"time"
)

// Range names accepted by the metrics overview.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	Monthly = "monthly"
)

// Names lists the ranges in display order.
var Names = []string{Daily, Weekly, Monthly}

// Normalize returns name if it is a known range, otherwise Daily.
func Normalize(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case Daily, Weekly, Monthly:
		return n
	}
	return Daily
}

// Bounds returns [start, end] for the named range ending today.
// daily is today 00:00:00.000 through 23:59:59.999, weekly covers the
// last 7 days and monthly the last 30, both ending at today's 23:59:59.999.
func Bounds(name string, now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	loc := now.Location()
	end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)

	back := 0
	switch Normalize(name) {
	case Weekly:
		back = 6
	case Monthly:
		back = 29
	}
	start = time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	return start, end
}

// LastDays returns [today-(n-1) 00:00, now].
func LastDays(n int, now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	return time.Date(y, m, d-(n-1), 0, 0, 0, 0, now.Location()), now
}

// ISO formats t the way the analytics backend expects: UTC with
// millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
