// Package report renders an analysis result as a markdown document.
// Sections whose inputs were unavailable are omitted rather than filled
// with placeholders.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
	"github.com/stellarlinkco/cot-bench/internal/annotation"
)

const markdownTemplate = `# Chain-of-Thought Prompting Comparison
{{if .Result.Model}}
Model: ` + "`{{.Result.Model}}`" + `{{end}}
Generated: {{.Date}}
Problems analyzed: {{.Result.Problems}}{{if .Result.Skipped}} ({{.Result.Skipped}} malformed input lines skipped){{end}}

## Accuracy by condition

| Condition | Accuracy | Correct | Attempts |
|-----------|----------|---------|----------|
{{range .Result.Conditions}}{{$a := index $.Result.Accuracy .}}| {{.}} | {{if $a.Defined}}{{pct $a.Accuracy}}{{else}}n/a{{end}} | {{$a.Correct}} | {{$a.Attempts}} |
{{end}}
## Pairwise significance
{{range .Result.Comparisons}}
### {{.A}} vs {{.B}} (n={{.N}})

- Agreement: both correct {{.Agreement.BothCorrect}}, {{.A}} only {{.Agreement.FirstOnly}}, {{.B}} only {{.Agreement.SecondOnly}}, both wrong {{.Agreement.BothWrong}}
- McNemar: {{if .McNemar.Defined}}chi2 = {{f4 .McNemar.Stat}}, p = {{f4 .McNemar.P}}{{sig .McNemar.P}}{{else}}not defined{{end}}
- Paired t-test: {{if .TTest.Defined}}t = {{f4 .TTest.Stat}}, p = {{f4 .TTest.P}}{{sig .TTest.P}}{{else}}not defined{{end}}
- Cohen's d: {{if .CohensDDefined}}{{f4 .CohensD}}{{else}}not defined{{end}}
{{end}}{{if .Result.Annotation}}
## Interpretability ratings

| Condition | Step correctness | Faithfulness | Clarity | Verification effort | Coherence | N |
|-----------|------------------|--------------|---------|---------------------|-----------|---|
{{range .AnnotationRows}}| {{.Condition}} | {{f2 .Summary.StepCorrectness.Mean}} ± {{f2 .Summary.StepCorrectness.StdDev}} | {{f2 .Summary.Faithfulness.Mean}} ± {{f2 .Summary.Faithfulness.StdDev}} | {{f2 .Summary.Clarity.Mean}} | {{f2 .Summary.VerificationEffort.Mean}} | {{f2 .Summary.Coherence.Mean}} | {{.Summary.StepCorrectness.N}} |
{{end}}{{end}}{{if .Result.Correlation}}
## Correlation with accuracy (n={{.Result.Correlation.N}})

| Metric | Pearson r | p |
|--------|-----------|---|
{{range .CorrelationRows}}| {{.Metric}} | {{f4 .R}} | {{if .Defined}}{{f4 .P}}{{sig .P}}{{else}}n/a{{end}} |
{{end}}{{end}}{{if .ErrorRows}}
## Error breakdown

| Condition | Formatting | Conceptual | Arithmetic | Total |
|-----------|------------|------------|------------|-------|
{{range .ErrorRows}}| {{.Condition}} | {{.Breakdown.Formatting}} | {{.Breakdown.Conceptual}} | {{.Breakdown.Arithmetic}} | {{.Breakdown.Total}} |
{{end}}{{end}}{{if .Result.Arithmetic}}
## Arithmetic inconsistencies

{{range .Result.Arithmetic}}- {{.ProblemID}}/{{.Condition}}: ` + "`{{.Expression}}`" + ` (actual {{f4 .Actual}})
{{end}}{{end}}`

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"sig": func(p float64) string {
		if p < 0.05 {
			return " *"
		}
		return ""
	},
}

var tmpl = template.Must(template.New("report").Funcs(funcs).Parse(markdownTemplate))

type view struct {
	Result          *analysis.Result
	Date            string
	AnnotationRows  []annotationRow
	CorrelationRows []correlationRow
	ErrorRows       []errorRow
}

type annotationRow struct {
	Condition string
	Summary   annotation.ConditionSummary
}

type correlationRow struct {
	Metric  string
	R       float64
	P       float64
	Defined bool
}

type errorRow struct {
	Condition string
	Breakdown analysis.ErrorBreakdown
}

func buildView(res *analysis.Result, now time.Time) *view {
	v := &view{
		Result: res,
		Date:   now.Format("2006-01-02"),
	}

	for _, cond := range res.Conditions {
		if summary, ok := res.Annotation[cond]; ok {
			v.AnnotationRows = append(v.AnnotationRows, annotationRow{Condition: cond, Summary: summary})
		}
		if breakdown, ok := res.Errors[cond]; ok && breakdown.Total > 0 {
			v.ErrorRows = append(v.ErrorRows, errorRow{Condition: cond, Breakdown: breakdown})
		}
	}

	if res.Correlation != nil {
		for _, metric := range res.Correlation.Metrics {
			test, ok := res.Correlation.AccuracyTests[metric]
			if !ok {
				continue
			}
			v.CorrelationRows = append(v.CorrelationRows, correlationRow{
				Metric:  metric,
				R:       test.R,
				P:       test.P,
				Defined: test.Defined,
			})
		}
	}
	return v
}

// Render writes the markdown report for an analysis result.
func Render(w io.Writer, res *analysis.Result) error {
	if res == nil {
		return errors.New("report: nil result")
	}
	return RenderAt(w, res, time.Now())
}

// RenderAt is Render with an injectable timestamp.
func RenderAt(w io.Writer, res *analysis.Result, now time.Time) error {
	if res == nil {
		return errors.New("report: nil result")
	}
	data := buildView(res, now)
	return tmpl.Execute(w, data)
}

// WriteFile renders the report to a file, creating parent directories.
func WriteFile(path string, res *analysis.Result) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("report: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create: %w", err)
	}
	defer f.Close()
	if err := Render(f, res); err != nil {
		return err
	}
	return f.Sync()
}
