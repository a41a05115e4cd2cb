// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 25

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	Total     int
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
	HasPrev   bool
	HasNext   bool
}

// Slice returns the page of rows beginning at the 1-based start. A start
// past the end snaps back to the last page so a stale link after a
// narrower filter still shows rows.
func Slice[T any](rows []T, start, size int) ([]T, Range) {
	if size <= 0 {
		size = PageSize
	}
	total := len(rows)
	if total == 0 {
		return nil, Range{PrevStart: 1, NextStart: 1}
	}
	if start < 1 {
		start = 1
	}
	if start > total {
		start = ((total-1)/size)*size + 1
	}

	end := min(start-1+size, total)
	prev := max(start-size, 1)

	return rows[start-1 : end], Range{
		Start:     start,
		End:       end,
		Total:     total,
		PrevStart: prev,
		NextStart: end + 1,
		HasPrev:   start > 1,
		HasNext:   end < total,
	}
}
