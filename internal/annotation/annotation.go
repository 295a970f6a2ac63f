// Package annotation loads human interpretability annotations and derives
// per-record and per-condition metrics. Annotations exist only for a
// sampled subset; anything incomplete is excluded from the affected
// aggregate, never treated as zero.
package annotation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stellarlinkco/cot-bench/internal/stats"
)

// Annotation is one annotated (problem, condition) response. Step and
// alignment scores are ordinal 0..2 per reasoning step; the three
// auditability ratings are 1..5. Unannotated fields stay nil/empty.
type Annotation struct {
	ProblemID string `json:"problem_id"`
	Condition string `json:"condition"`

	StepScores      []int `json:"step_scores,omitempty"`
	AlignmentScores []int `json:"alignment_scores,omitempty"`

	ClarityScore            *float64 `json:"clarity_score,omitempty"`
	VerificationEffortScore *float64 `json:"verification_effort_score,omitempty"`
	CoherenceScore          *float64 `json:"coherence_score,omitempty"`
}

// Metrics is the derived per-record metric set. A record appears here only
// when every metric family was annotated, so correlation analysis never
// has to impute.
type Metrics struct {
	ProblemID string `json:"problem_id"`
	Condition string `json:"condition"`

	StepCorrectness    float64 `json:"step_correctness"`
	Faithfulness       float64 `json:"faithfulness"`
	Clarity            float64 `json:"clarity"`
	VerificationEffort float64 `json:"verification_effort"`
	Coherence          float64 `json:"coherence"`
}

// Complete reports whether every metric family is annotated.
func (a *Annotation) Complete() bool {
	return a != nil &&
		len(a.StepScores) > 0 &&
		len(a.AlignmentScores) > 0 &&
		a.ClarityScore != nil &&
		a.VerificationEffortScore != nil &&
		a.CoherenceScore != nil
}

// ComputeMetrics derives the metric set for a complete annotation. ok is
// false for incomplete records.
func ComputeMetrics(a *Annotation) (Metrics, bool) {
	if !a.Complete() {
		return Metrics{}, false
	}
	return Metrics{
		ProblemID:          a.ProblemID,
		Condition:          a.Condition,
		StepCorrectness:    meanInts(a.StepScores),
		Faithfulness:       meanInts(a.AlignmentScores),
		Clarity:            *a.ClarityScore,
		VerificationEffort: *a.VerificationEffortScore,
		Coherence:          *a.CoherenceScore,
	}, true
}

func meanInts(vals []int) float64 {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

// Load reads annotations from a JSONL file, skipping malformed lines and
// records without identity fields.
func Load(path string) ([]Annotation, int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, 0, errors.New("annotation: empty path")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out []Annotation
	skipped := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var a Annotation
		if err := json.Unmarshal(line, &a); err != nil ||
			strings.TrimSpace(a.ProblemID) == "" || strings.TrimSpace(a.Condition) == "" {
			skipped++
			continue
		}
		out = append(out, a)
	}
	if err := sc.Err(); err != nil {
		return out, skipped, fmt.Errorf("annotation: scan %q: %w", path, err)
	}
	return out, skipped, nil
}

// Summary aggregates one metric across a condition's annotated records.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	N      int     `json:"n"`
}

// ConditionSummary holds the per-condition aggregates of every metric.
type ConditionSummary struct {
	StepCorrectness    Summary `json:"step_correctness"`
	Faithfulness       Summary `json:"faithfulness"`
	Clarity            Summary `json:"clarity"`
	VerificationEffort Summary `json:"verification_effort"`
	Coherence          Summary `json:"coherence"`
}

type metricValues struct {
	step      []float64
	faith     []float64
	clarity   []float64
	effort    []float64
	coherence []float64
}

func (v *metricValues) empty() bool {
	return len(v.step) == 0 && len(v.faith) == 0 && len(v.clarity) == 0 &&
		len(v.effort) == 0 && len(v.coherence) == 0
}

// Aggregate computes per-condition summaries, each metric family over the
// records that annotate that family. A record missing a family is skipped
// for that family only, not for the others. Conditions with no annotated
// family at all are absent from the result.
func Aggregate(annotations []Annotation) map[string]ConditionSummary {
	byCond := make(map[string]*metricValues)
	for i := range annotations {
		a := &annotations[i]
		vals := byCond[a.Condition]
		if vals == nil {
			vals = &metricValues{}
			byCond[a.Condition] = vals
		}
		if len(a.StepScores) > 0 {
			vals.step = append(vals.step, meanInts(a.StepScores))
		}
		if len(a.AlignmentScores) > 0 {
			vals.faith = append(vals.faith, meanInts(a.AlignmentScores))
		}
		if a.ClarityScore != nil {
			vals.clarity = append(vals.clarity, *a.ClarityScore)
		}
		if a.VerificationEffortScore != nil {
			vals.effort = append(vals.effort, *a.VerificationEffortScore)
		}
		if a.CoherenceScore != nil {
			vals.coherence = append(vals.coherence, *a.CoherenceScore)
		}
	}

	out := make(map[string]ConditionSummary, len(byCond))
	for cond, vals := range byCond {
		if vals.empty() {
			continue
		}
		out[cond] = ConditionSummary{
			StepCorrectness:    summarize(vals.step),
			Faithfulness:       summarize(vals.faith),
			Clarity:            summarize(vals.clarity),
			VerificationEffort: summarize(vals.effort),
			Coherence:          summarize(vals.coherence),
		}
	}
	return out
}

func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	return Summary{
		Mean:   stats.Mean(vals),
		StdDev: stats.StdDev(vals),
		N:      len(vals),
	}
}
