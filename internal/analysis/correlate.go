package analysis

import (
	"github.com/stellarlinkco/cot-bench/internal/annotation"
	"github.com/stellarlinkco/cot-bench/internal/stats"
)

// CorrelationMetrics is the fixed variable order of the correlation join.
var CorrelationMetrics = []string{
	"accuracy",
	"step_correctness",
	"faithfulness",
	"clarity",
	"verification_effort",
	"coherence",
}

// CorrelationSet holds both correlation matrices over the joined records
// plus the accuracy-column significance tests.
type CorrelationSet struct {
	N        int           `json:"n"`
	Metrics  []string      `json:"metrics"`
	Pearson  *stats.Matrix `json:"pearson,omitempty"`
	Spearman *stats.Matrix `json:"spearman,omitempty"`

	// AccuracyTests maps metric name to the Pearson r significance test
	// of accuracy against that metric.
	AccuracyTests map[string]AccuracyCorrelation `json:"accuracy_tests,omitempty"`
}

// AccuracyCorrelation is one accuracy-vs-metric Pearson test.
type AccuracyCorrelation struct {
	R       float64 `json:"r"`
	P       float64 `json:"p"`
	Defined bool    `json:"defined"`
}

// Correlate joins scored correctness with complete annotations and builds
// the Pearson and Spearman matrices. Annotations missing any metric
// family, or without a scored correctness cell, are excluded entirely.
// Fewer than 2 joined records makes the whole set unavailable (nil).
func Correlate(c *Correctness, annotations []annotation.Annotation) *CorrelationSet {
	if c == nil {
		return nil
	}

	cols := make([][]float64, len(CorrelationMetrics))
	for i := range annotations {
		m, ok := annotation.ComputeMetrics(&annotations[i])
		if !ok {
			continue
		}
		correct, present := c.Correct(m.Condition, m.ProblemID)
		if !present {
			continue
		}
		acc := 0.0
		if correct {
			acc = 1.0
		}
		row := []float64{acc, m.StepCorrectness, m.Faithfulness, m.Clarity, m.VerificationEffort, m.Coherence}
		for j, v := range row {
			cols[j] = append(cols[j], v)
		}
	}

	n := len(cols[0])
	if n < 2 {
		return nil
	}

	set := &CorrelationSet{
		N:        n,
		Metrics:  append([]string(nil), CorrelationMetrics...),
		Pearson:  stats.CorrelationMatrix(CorrelationMetrics, cols, stats.Pearson),
		Spearman: stats.CorrelationMatrix(CorrelationMetrics, cols, stats.Spearman),
	}

	set.AccuracyTests = make(map[string]AccuracyCorrelation, len(CorrelationMetrics)-1)
	for j := 1; j < len(CorrelationMetrics); j++ {
		r, test := stats.PearsonTest(cols[0], cols[j])
		set.AccuracyTests[CorrelationMetrics[j]] = AccuracyCorrelation{
			R:       r,
			P:       test.P,
			Defined: test.Defined,
		}
	}
	return set
}
