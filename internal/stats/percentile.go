// Package stats provides latency statistics for benchmark results.
//
// Final report percentiles use the nearest-rank method over the raw sample
// so every reported value is an actual observed latency. The Histogram type
// exists only for cheap in-flight snapshots while a run is still going.
package stats

import (
	"math"
	"sort"
)

// Percentile returns the nearest-rank percentile of samples for p in (0, 100].
//
// The samples slice is not modified. An empty sample returns 0: a variant
// where every request failed still has to produce a reportable latency.
func Percentile(samples []float64, p float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Mean returns the arithmetic mean of samples, or 0 for an empty sample.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

// Max returns the largest sample, or 0 for an empty sample.
func Max(samples []float64) float64 {
	var max float64
	for _, v := range samples {
		if v > max {
			max = v
		}
	}
	return max
}
