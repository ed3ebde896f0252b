package stats

// Bucket is one histogram bin over [Low, High).
// The final bucket is closed on both ends.
type Bucket struct {
	Low   float64
	High  float64
	Count int
}

// Histogram partitions [min, max] of samples into bins equal-width buckets.
//
// Two documented special cases:
//   - empty samples: bins zero-count buckets, all bounds zero;
//   - constant samples (min == max): a single bucket holding the full
//     count, avoiding a zero-width partition.
//
// A sample landing past the last boundary clamps into the final bucket,
// which guards floating-point rounding at the max value. Bucket counts
// always sum to len(samples).
func Histogram(samples []float64, bins int) []Bucket {
	if bins <= 0 {
		panic("stats: histogram bins should be greater than 0")
	}
	if len(samples) == 0 {
		return make([]Bucket, bins)
	}

	min, max := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if min == max {
		return []Bucket{{Low: min, High: max, Count: len(samples)}}
	}

	width := (max - min) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Low = min + float64(i)*width
		buckets[i].High = min + float64(i+1)*width
	}
	buckets[bins-1].High = max

	for _, s := range samples {
		idx := int((s - min) / width)
		if idx > bins-1 {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}
