package stats

import (
	"errors"
	"math"
)

var (
	// ErrDegenerate signals too few samples for the statistic.
	ErrDegenerate = errors.New("stats: too few samples")
	// ErrZeroVariance signals a pooled variance of zero.
	ErrZeroVariance = errors.New("stats: zero variance")
	// ErrLengthMismatch signals unpaired input sequences.
	ErrLengthMismatch = errors.New("stats: length mismatch")
)

// PairedTTest runs a two-sided paired t-test on two aligned numeric
// sequences. Undefined when fewer than two pairs exist or the differences
// have zero variance.
func PairedTTest(x, y []float64) PairedTest {
	if len(x) != len(y) || len(x) < 2 {
		return PairedTest{}
	}

	n := len(x)
	diffs := make([]float64, n)
	for i := range x {
		diffs[i] = x[i] - y[i]
	}

	sd := StdDev(diffs)
	if sd == 0 {
		return PairedTest{}
	}

	t := Mean(diffs) / (sd / math.Sqrt(float64(n)))
	return PairedTest{
		Stat:    t,
		P:       StudentTSF2(t, n-1),
		N:       n,
		Defined: true,
	}
}

// CohensD returns the standardized mean difference between two samples
// using the pooled standard deviation (sample variance, ddof=1).
func CohensD(x, y []float64) (float64, error) {
	nx := len(x)
	ny := len(y)
	if nx+ny <= 2 {
		return 0, ErrDegenerate
	}

	dof := float64(nx + ny - 2)
	pooled := (float64(nx-1)*SampleVariance(x) + float64(ny-1)*SampleVariance(y)) / dof
	if pooled <= 0 {
		return 0, ErrZeroVariance
	}

	return (Mean(x) - Mean(y)) / math.Sqrt(pooled), nil
}
