// Package report renders registry statistics for humans. Presentation
// only: the numbers come straight from the profiler's snapshots and the
// stats histogram, and relative bucket magnitudes are preserved.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hotpath-go/hotpath/profiler"
	"github.com/hotpath-go/hotpath/stats"
)

// Render returns one table row per analyzed function.
func Render(statistics []profiler.FunctionStatistics) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"function", "calls", "min ms", "median ms", "hot ms", "max ms"})
	for _, s := range statistics {
		t.AppendRow(table.Row{
			s.Name,
			humanize.Comma(int64(s.Count)),
			formatMs(s.Min),
			formatMs(s.Median),
			formatMs(s.Hot),
			formatMs(s.Max),
		})
	}
	return t.Render()
}

// HistogramBars renders buckets as horizontal bars scaled to width runes
// for the fullest bucket.
func HistogramBars(buckets []stats.Bucket, width int) string {
	if width <= 0 {
		width = 40
	}

	max := 0
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}

	var sb strings.Builder
	for _, b := range buckets {
		bar := 0
		if max > 0 {
			bar = b.Count * width / max
		}
		if b.Count > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(&sb, "%10s - %-10s |%-*s %d\n",
			formatMs(b.Low), formatMs(b.High), width, strings.Repeat("#", bar), b.Count)
	}
	return sb.String()
}

func formatMs(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
