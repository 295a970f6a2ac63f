// Package analysis turns extracted response records and interpretability
// annotations into the comparative study results: per-condition accuracy,
// pairwise significance tests, correlations, and error triage.
package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/stellarlinkco/cot-bench/internal/annotation"
	"github.com/stellarlinkco/cot-bench/internal/answer"
	"github.com/stellarlinkco/cot-bench/internal/response"
	"github.com/stellarlinkco/cot-bench/internal/stats"
)

// Correctness is the scored (problem, condition) table. An attempted
// condition with a failed extraction scores incorrect, which is not the
// same as absent; a record whose ground truth failed normalization also
// scores incorrect and stays in every denominator.
type Correctness struct {
	Conditions []string
	ProblemIDs []string
	results    map[string]map[string]bool // condition -> problem id
}

// BuildCorrectness scores every record against its numeric ground truth.
// tolerance <= 0 falls back to the package default.
func BuildCorrectness(records []response.Record, conditions []string, tolerance float64) (*Correctness, error) {
	if len(conditions) == 0 {
		return nil, errors.New("analysis: no conditions")
	}

	c := &Correctness{
		Conditions: append([]string(nil), conditions...),
		results:    make(map[string]map[string]bool, len(conditions)),
	}
	for _, cond := range conditions {
		c.results[cond] = make(map[string]bool)
	}

	for i := range records {
		rec := &records[i]
		attempted := false
		for _, cond := range conditions {
			extracted, present := rec.ExtractedAnswers[cond]
			if !present {
				continue
			}
			attempted = true
			// IsCorrect returns false for a nil ground truth, so those
			// attempts count against accuracy rather than vanish.
			c.results[cond][rec.ProblemID] = answer.IsCorrect(extracted, rec.GroundTruthNumeric, tolerance)
		}
		if attempted {
			c.ProblemIDs = append(c.ProblemIDs, rec.ProblemID)
		}
	}
	sort.Strings(c.ProblemIDs)
	return c, nil
}

// Correct reports the scored result for one cell; present is false when
// the condition never attempted the problem.
func (c *Correctness) Correct(condition, problemID string) (correct, present bool) {
	row, ok := c.results[condition]
	if !ok {
		return false, false
	}
	correct, present = row[problemID]
	return correct, present
}

// AccuracySummary is one condition's accuracy with its counts. Defined is
// false when the condition has zero attempts.
type AccuracySummary struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Attempts int     `json:"attempts"`
	Defined  bool    `json:"defined"`
}

// Accuracy computes the summary for one condition.
func (c *Correctness) Accuracy(condition string) AccuracySummary {
	row := c.results[condition]
	out := AccuracySummary{Attempts: len(row)}
	if out.Attempts == 0 {
		return out
	}
	for _, ok := range row {
		if ok {
			out.Correct++
		}
	}
	out.Accuracy = float64(out.Correct) / float64(out.Attempts)
	out.Defined = true
	return out
}

// Paired returns the two conditions' results aligned over the problems
// both attempted, in problem-id order.
func (c *Correctness) Paired(a, b string) (x, y []bool) {
	rowA, rowB := c.results[a], c.results[b]
	for _, id := range c.ProblemIDs {
		va, oka := rowA[id]
		vb, okb := rowB[id]
		if oka && okb {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// PairComparison is one condition pair's significance battery.
type PairComparison struct {
	A string `json:"condition_a"`
	B string `json:"condition_b"`
	N int    `json:"n"`

	Agreement stats.AgreementTable `json:"agreement"`
	McNemar   stats.PairedTest     `json:"mcnemar"`
	TTest     stats.PairedTest     `json:"paired_t"`

	CohensD        float64 `json:"cohens_d"`
	CohensDDefined bool    `json:"cohens_d_defined"`
}

// Compare runs the full pairwise battery over every condition pair.
func (c *Correctness) Compare() []PairComparison {
	var out []PairComparison
	for i := 0; i < len(c.Conditions); i++ {
		for j := i + 1; j < len(c.Conditions); j++ {
			a, b := c.Conditions[i], c.Conditions[j]
			x, y := c.Paired(a, b)
			pc := PairComparison{A: a, B: b, N: len(x)}
			pc.Agreement, _ = stats.Agreement(x, y)
			pc.McNemar = stats.McNemar(x, y)

			fx, fy := stats.BoolsToFloats(x), stats.BoolsToFloats(y)
			pc.TTest = stats.PairedTTest(fx, fy)
			if d, err := stats.CohensD(fx, fy); err == nil {
				pc.CohensD = d
				pc.CohensDDefined = true
			}
			out = append(out, pc)
		}
	}
	return out
}

// Result is the aggregate analysis output, serialized as a single JSON
// object keyed by metric name.
type Result struct {
	Model      string   `json:"model,omitempty"`
	Conditions []string `json:"conditions"`
	Problems   int      `json:"problems"`
	Skipped    int      `json:"skipped_lines,omitempty"`

	Accuracy    map[string]AccuracySummary             `json:"accuracy"`
	Comparisons []PairComparison                       `json:"comparisons"`
	Correlation *CorrelationSet                        `json:"correlation,omitempty"`
	Annotation  map[string]annotation.ConditionSummary `json:"annotation,omitempty"`
	Errors      map[string]ErrorBreakdown              `json:"errors,omitempty"`
	Arithmetic  []ArithmeticFinding                    `json:"arithmetic_findings,omitempty"`
}

// Options configures an analysis pass.
type Options struct {
	Conditions []string
	Tolerance  float64
	Skipped    int // malformed input lines, surfaced in the result
}

// Analyze runs the whole battery. annotations may be nil; the correlation
// and annotation sections are then omitted.
func Analyze(records []response.Record, annotations []annotation.Annotation, opts Options) (*Result, error) {
	if len(records) == 0 {
		return nil, errors.New("analysis: no records")
	}

	correctness, err := BuildCorrectness(records, opts.Conditions, opts.Tolerance)
	if err != nil {
		return nil, err
	}
	if len(correctness.ProblemIDs) == 0 {
		return nil, fmt.Errorf("analysis: no scorable records (no attempted conditions)")
	}

	res := &Result{
		Model:       firstModel(records),
		Conditions:  correctness.Conditions,
		Problems:    len(correctness.ProblemIDs),
		Skipped:     opts.Skipped,
		Accuracy:    make(map[string]AccuracySummary, len(opts.Conditions)),
		Comparisons: correctness.Compare(),
		Errors:      TriageErrors(records, opts.Conditions, opts.Tolerance),
		Arithmetic:  ScanArithmetic(records, opts.Conditions),
	}
	for _, cond := range correctness.Conditions {
		res.Accuracy[cond] = correctness.Accuracy(cond)
	}

	if len(annotations) > 0 {
		res.Annotation = annotation.Aggregate(annotations)
		res.Correlation = Correlate(correctness, annotations)
	}
	return res, nil
}

func firstModel(records []response.Record) string {
	for i := range records {
		if records[i].Model != "" {
			return records[i].Model
		}
	}
	return ""
}
