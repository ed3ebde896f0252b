package profiler

import (
	"github.com/rickb777/date/v2/timespan"

	"github.com/hotpath-go/hotpath/stats"
)

// FunctionStatistics is the immutable snapshot derived from a function's
// analysis window. It is created exactly once per function, the first time
// its 100-sample buffer fills, and never recomputed afterward.
type FunctionStatistics struct {
	// Name is the registration name the snapshot is keyed by.
	Name string
	// Min, Median, Max are order statistics over the sorted analysis
	// window, in milliseconds.
	Min    float64
	Median float64
	Max    float64
	// Hot is the analysis window's value at the effective hot percentile.
	Hot float64
	// Count is the wrapper's total call count at analysis time, lazy
	// activation included.
	Count int
	// Histogram buckets the analysis window for reporting.
	Histogram []stats.Bucket
	// History is a call-ordered copy of the rolling history at analysis
	// time.
	History []float64
	// Window spans from the first observed sample to the analysis instant.
	Window timespan.TimeSpan
}
