package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
	"github.com/stellarlinkco/cot-bench/internal/annotation"
	"github.com/stellarlinkco/cot-bench/internal/stats"
)

func fullResult() *analysis.Result {
	return &analysis.Result{
		Model:      "x-ai/grok-4.1-fast",
		Conditions: []string{"outcome", "process"},
		Problems:   200,
		Skipped:    1,
		Accuracy: map[string]analysis.AccuracySummary{
			"outcome": {Accuracy: 0.82, Correct: 164, Attempts: 200, Defined: true},
			"process": {Accuracy: 0.915, Correct: 183, Attempts: 200, Defined: true},
		},
		Comparisons: []analysis.PairComparison{{
			A: "outcome", B: "process", N: 200,
			Agreement:      stats.AgreementTable{BothCorrect: 160, FirstOnly: 4, SecondOnly: 23, BothWrong: 13},
			McNemar:        stats.PairedTest{Stat: 12.0, P: 0.000532, N: 200, Defined: true},
			TTest:          stats.PairedTest{Stat: -3.7, P: 0.00027, N: 200, Defined: true},
			CohensD:        -0.31,
			CohensDDefined: true,
		}},
		Annotation: map[string]annotation.ConditionSummary{
			"process": {
				StepCorrectness:    annotation.Summary{Mean: 1.8, StdDev: 0.3, N: 40},
				Faithfulness:       annotation.Summary{Mean: 1.6, StdDev: 0.5, N: 40},
				Clarity:            annotation.Summary{Mean: 4.2, StdDev: 0.7, N: 40},
				VerificationEffort: annotation.Summary{Mean: 2.4, StdDev: 0.9, N: 40},
				Coherence:          annotation.Summary{Mean: 4.5, StdDev: 0.4, N: 40},
			},
		},
		Correlation: &analysis.CorrelationSet{
			N:       40,
			Metrics: analysis.CorrelationMetrics,
			AccuracyTests: map[string]analysis.AccuracyCorrelation{
				"step_correctness": {R: 0.62, P: 0.001, Defined: true},
				"clarity":          {R: 0.18, P: 0.27, Defined: true},
			},
		},
		Errors: map[string]analysis.ErrorBreakdown{
			"outcome": {Formatting: 6, Conceptual: 20, Arithmetic: 10, Total: 36},
			"process": {Total: 0},
		},
		Arithmetic: []analysis.ArithmeticFinding{{
			ProblemID: "gsm8k_017", Condition: "process",
			Expression: "7 x 8 = 54", Claimed: 54, Actual: 56,
		}},
	}
}

func TestRenderAt(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	if err := RenderAt(&sb, fullResult(), now); err != nil {
		t.Fatalf("RenderAt: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"# Chain-of-Thought Prompting Comparison",
		"`x-ai/grok-4.1-fast`",
		"2026-08-23",
		"(1 malformed input lines skipped)",
		"| outcome | 82.0% | 164 | 200 |",
		"| process | 91.5% | 183 | 200 |",
		"### outcome vs process (n=200)",
		"chi2 = 12.0000, p = 0.0005 *",
		"Cohen's d: -0.3100",
		"| process | 1.80 ± 0.30 |",
		"| step_correctness | 0.6200 | 0.0010 * |",
		"| clarity | 0.1800 | 0.2700 |",
		"| outcome | 6 | 20 | 10 | 36 |",
		"`7 x 8 = 54` (actual 56.0000)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q in:\n%s", want, out)
		}
	}

	// process had zero errors: it must not get an error row.
	if strings.Contains(out, "| process | 0 | 0 | 0 | 0 |") {
		t.Fatalf("zero-error condition rendered:\n%s", out)
	}
}

func TestRender_OmitsUnavailableSections(t *testing.T) {
	t.Parallel()

	res := &analysis.Result{
		Conditions: []string{"outcome"},
		Problems:   3,
		Accuracy: map[string]analysis.AccuracySummary{
			"outcome": {Accuracy: 1, Correct: 3, Attempts: 3, Defined: true},
		},
	}

	var sb strings.Builder
	if err := Render(&sb, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := sb.String()

	for _, absent := range []string{
		"Interpretability ratings",
		"Correlation with accuracy",
		"Error breakdown",
		"Arithmetic inconsistencies",
		"Model:",
	} {
		if strings.Contains(out, absent) {
			t.Fatalf("section %q must be omitted:\n%s", absent, out)
		}
	}
}

func TestRender_UndefinedAccuracy(t *testing.T) {
	t.Parallel()

	res := &analysis.Result{
		Conditions: []string{"outcome"},
		Problems:   1,
		Accuracy:   map[string]analysis.AccuracySummary{"outcome": {}},
	}

	var sb strings.Builder
	if err := Render(&sb, res); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(sb.String(), "| outcome | n/a | 0 | 0 |") {
		t.Fatalf("undefined accuracy must render n/a:\n%s", sb.String())
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "report.md")
	if err := WriteFile(path, fullResult()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "## Accuracy by condition") {
		t.Fatalf("file contents wrong:\n%s", data)
	}
}

func TestRender_NilResult(t *testing.T) {
	t.Parallel()

	if err := Render(&strings.Builder{}, nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}
