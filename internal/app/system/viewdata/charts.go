package viewdata

import (
	"math"
	"strconv"

	"github.com/dalemusser/ezdash/internal/app/system/format"
	"github.com/dalemusser/ezdash/internal/domain/models"
)

// ChartPoint is one bar of a rendered series. Height is a percentage of
// the series maximum so templates need no arithmetic.
type ChartPoint struct {
	Label   string
	Display string
	Height  int
}

// Chart is a series ready for the line_chart fragment.
type Chart struct {
	Name   string
	Title  string
	Failed bool
	Empty  bool
	Points []ChartPoint
}

// ChartFrom converts a series for display.
func ChartFrom(s models.Series) Chart {
	c := Chart{Name: s.Name, Title: s.Title, Failed: s.Failed, Empty: len(s.Points) == 0}
	top := s.Max()
	for _, p := range s.Points {
		h := 0
		if top > 0 {
			h = int(math.Round(p.Value / top * 100))
		}
		c.Points = append(c.Points, ChartPoint{Label: p.Label, Display: number(p.Value), Height: h})
	}
	return c
}

// ChartsFrom converts a batch of series.
func ChartsFrom(series []models.Series) []Chart {
	out := make([]Chart, 0, len(series))
	for _, s := range series {
		out = append(out, ChartFrom(s))
	}
	return out
}

// Bar is one row of a breakdown_list fragment.
type Bar struct {
	Name       string
	Count      string
	Percentage string
	Width      int
}

// BarsFrom converts breakdown rows for display.
func BarsFrom(rows []models.Breakdown) []Bar {
	out := make([]Bar, 0, len(rows))
	for _, b := range rows {
		w := int(math.Round(b.Percentage))
		if w > 100 {
			w = 100
		}
		if w < 0 {
			w = 0
		}
		out = append(out, Bar{
			Name:       b.Name,
			Count:      number(b.Count),
			Percentage: strconv.Itoa(int(math.Round(b.Percentage))) + "%",
			Width:      w,
		})
	}
	return out
}

func number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return format.Count(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
