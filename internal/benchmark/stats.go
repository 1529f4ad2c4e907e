package benchmark

import (
	"math"
	"sort"

	"golang.org/x/perf/benchmath"
)

// Confidence is the confidence level of the median interval.
const Confidence = 0.95

// Stats summarizes per-sample ns/op values.
type Stats struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
	P99     float64 `json:"p99"`
	// CILow and CIHigh bound the median. They fall back to Min and Max when
	// there are too few samples for a finite interval.
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
}

// Summarize computes statistics over values.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sq float64
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}
	var stddev float64
	if len(sorted) > 1 {
		stddev = math.Sqrt(sq / float64(len(sorted)-1))
	}

	s := Stats{
		Samples: len(sorted),
		Mean:    mean,
		StdDev:  stddev,
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		P90:     percentile(sorted, 0.90),
		P99:     percentile(sorted, 0.99),
	}

	sample := benchmath.NewSample(append([]float64(nil), sorted...), &benchmath.DefaultThresholds)
	summary := benchmath.AssumeNothing.Summary(sample, Confidence)
	s.Median = summary.Center
	s.CILow, s.CIHigh = summary.Lo, summary.Hi
	if math.IsInf(s.CILow, 0) || math.IsNaN(s.CILow) {
		s.CILow = s.Min
	}
	if math.IsInf(s.CIHigh, 0) || math.IsNaN(s.CIHigh) {
		s.CIHigh = s.Max
	}
	return s
}

// percentile uses the nearest-rank method on sorted values.
func percentile(sorted []float64, q float64) float64 {
	rank := int(math.Ceil(q * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
