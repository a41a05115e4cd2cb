package viewdata

import "github.com/dalemusser/ezdash/internal/app/system/timeranges"

// RangeTab is one button of a time-range selector.
type RangeTab struct {
	Name    string
	Label   string
	Current bool
}

var rangeLabels = map[string]string{
	timeranges.Daily:   "Daily",
	timeranges.Weekly:  "Weekly",
	timeranges.Monthly: "Monthly",
}

// RangeTabs lists every range with current marked.
func RangeTabs(current string) []RangeTab {
	tabs := make([]RangeTab, 0, len(timeranges.Names))
	for _, n := range timeranges.Names {
		tabs = append(tabs, RangeTab{Name: n, Label: rangeLabels[n], Current: n == current})
	}
	return tabs
}
