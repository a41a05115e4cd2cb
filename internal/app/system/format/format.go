// Package format derives the display strings shown next to metrics:
// period-over-period change, relative timestamps and trial countdowns.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dalemusser/ezdash/internal/domain/models"
)

// CalcChange returns (cur-prev)/prev*100 rounded half up, so -87.5
// becomes -87. It is 0 when prev is 0.
func CalcChange(cur, prev float64) int {
	if prev == 0 {
		return 0
	}
	return int(math.Floor((cur-prev)/prev*100 + 0.5))
}

// ChangeLabel renders a change as "+N%" or "-N%". Zero renders as ""
// so templates can hide the badge.
func ChangeLabel(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("+%d%%", change)
	case change < 0:
		return fmt.Sprintf("%d%%", change)
	}
	return ""
}

// DateLayout is used once a timestamp is a week or more old.
const DateLayout = "Jan 2, 2006"

// RelativeTime renders ts relative to now. A nil ts renders as ifMissing.
//
//	< 60s  "Just now"
//	< 1h   "N minutes ago"
//	< 1d   "N hours ago"
//	< 7d   "N days ago"
//	else   "Jan 2, 2006"
func RelativeTime(ts *time.Time, now time.Time, ifMissing string) string {
	if ts == nil || ts.IsZero() {
		return ifMissing
	}
	secs := int64(now.Sub(*ts) / time.Second)
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return strconv.FormatInt(secs/60, 10) + " minutes ago"
	case secs < 86400:
		return strconv.FormatInt(secs/3600, 10) + " hours ago"
	case secs < 604800:
		return strconv.FormatInt(secs/86400, 10) + " days ago"
	}
	return ts.In(now.Location()).Format(DateLayout)
}

// TrialDaysLeft returns 14 minus the whole days elapsed since createdAt.
// ok is false once the result is negative, meaning the trial expired.
func TrialDaysLeft(createdAt, now time.Time) (days int, ok bool) {
	elapsed := int(math.Floor(now.Sub(createdAt).Hours() / 24))
	left := models.TrialDays - elapsed
	return left, left >= 0
}

// TrialLabel renders TrialDaysLeft as a number or "Expired". A nil
// createdAt renders as "".
func TrialLabel(createdAt *time.Time, now time.Time) string {
	if createdAt == nil {
		return ""
	}
	days, ok := TrialDaysLeft(*createdAt, now)
	if !ok {
		return "Expired"
	}
	return strconv.Itoa(days)
}

// Count renders an integer count with thousands separators.
func Count(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Decimal renders v with a fixed number of decimal places.
func Decimal(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
