// Package stats provides pure statistics over latency samples measured in
// milliseconds. All functions operate on copies; callers keep ownership of
// their slices.
package stats

import (
	"math"
	"sort"
)

// Percentile returns the sample at the p-quantile of samples, p in [0, 1].
// The index is floor(len*p), clamped to len-1, over the ascending sort of
// the input. So Percentile(s, 0) is the minimum and Percentile(s, 1) the
// maximum.
//
// An empty input is a programming error: callers are expected to consult a
// full analysis buffer, never an empty one.
func Percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		panic("stats: percentile of empty samples")
	}
	sorted := sortedCopy(samples)
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Summary holds order statistics over one sample window.
type Summary struct {
	Min    float64
	Median float64
	Max    float64
}

// Summarize returns min, median and max of samples.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		panic("stats: summary of empty samples")
	}
	sorted := sortedCopy(samples)
	return Summary{
		Min:    sorted[0],
		Median: sorted[len(sorted)/2],
		Max:    sorted[len(sorted)-1],
	}
}

func sortedCopy(samples []float64) []float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return sorted
}
