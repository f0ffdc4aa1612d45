// Package stat implements the Statistic Evaluator: the aggregation
// functions a dynamic query applies to a metric's windowed samples. The
// averaging/windowing style follows the teacher's idle.SlidingWindow, which
// reduces a window of samples to a handful of scalar summaries the same
// way.
package stat

import (
	"sort"

	"presentmw/internal/ptypes"
)

// Evaluate reduces samples (already windowed by the caller) to a single
// value per the requested Stat. percentile is only consulted for
// ptypes.StatPercentile and must be in [0, 100].
func Evaluate(samples []float64, s ptypes.Stat, percentile float64) float64 {
	switch s {
	case ptypes.StatAvg:
		return avg(samples)
	case ptypes.StatNonZeroAvg:
		return nonZeroAvg(samples)
	case ptypes.StatMax:
		return max(samples)
	case ptypes.StatMin:
		return min(samples)
	case ptypes.StatMidPoint:
		return midPoint(samples)
	case ptypes.StatPercentile:
		return percentileOf(samples, percentile)
	case ptypes.StatMidLerp, ptypes.StatNewestPoint, ptypes.StatOldestPoint, ptypes.StatCount:
		// Open question OQ-2 in the spec: these interpolating/positional
		// stats are reserved but not yet defined over a windowed sample
		// set. Until resolved they report 0 rather than a misleading
		// number.
		return 0
	default:
		return 0
	}
}

func avg(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

func nonZeroAvg(samples []float64) float64 {
	var sum float64
	var n int
	for _, v := range samples {
		if v != 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func max(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	m := samples[0]
	for _, v := range samples[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func min(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	m := samples[0]
	for _, v := range samples[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// midPoint returns the insertion-order midpoint data[n/2], not the median
// or mid-range — matches the original's CalculateStatistic, which indexes
// the unsorted sample slice directly.
func midPoint(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)/2]
}

// percentileOf sorts samples and linearly interpolates between the two
// nearest ranks, matching the nearest-rank-with-interpolation convention:
// index = p/100 * (n-1).
func percentileOf(samples []float64, p float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	if n == 1 {
		return sorted[0]
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	idx := p / 100 * float64(n-1)
	lo := int(idx)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
