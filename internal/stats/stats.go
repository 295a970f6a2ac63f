// Package stats implements the comparative statistics used to evaluate
// prompting conditions: accuracy, paired significance tests, effect sizes,
// and correlation matrices. Every function is a pure transformation;
// insufficient data yields an explicit undefined result, never a panic.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// SampleVariance returns the ddof=1 variance, or 0 when fewer than two
// samples exist.
func SampleVariance(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := Mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(vals)-1)
}

// StdDev returns the ddof=1 standard deviation.
func StdDev(vals []float64) float64 {
	return math.Sqrt(SampleVariance(vals))
}

// Accuracy returns the fraction of true values. ok is false for an empty
// sequence: zero attempts is undefined, not zero percent.
func Accuracy(outcomes []bool) (float64, bool) {
	if len(outcomes) == 0 {
		return 0, false
	}
	correct := 0
	for _, v := range outcomes {
		if v {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes)), true
}

// BoolsToFloats maps a correctness sequence to 0/1 values for the tests
// that operate on numeric vectors.
func BoolsToFloats(outcomes []bool) []float64 {
	out := make([]float64, len(outcomes))
	for i, v := range outcomes {
		if v {
			out[i] = 1
		}
	}
	return out
}
