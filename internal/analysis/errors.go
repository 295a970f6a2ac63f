package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/stellarlinkco/cot-bench/internal/answer"
	"github.com/stellarlinkco/cot-bench/internal/response"
)

// Error categories for incorrect responses.
const (
	ErrorFormatting = "formatting" // no numeric answer could be extracted
	ErrorConceptual = "conceptual" // answer off by more than half the truth
	ErrorArithmetic = "arithmetic" // close but wrong
)

// conceptualThreshold is the relative-error boundary between a wrong
// approach and a slipped calculation.
const conceptualThreshold = 0.5

// ErrorBreakdown counts one condition's incorrect responses by category.
type ErrorBreakdown struct {
	Formatting int `json:"formatting"`
	Conceptual int `json:"conceptual"`
	Arithmetic int `json:"arithmetic"`
	Total      int `json:"total"`
}

// TriageErrors classifies every incorrect attempted response. Correct
// responses and unattempted conditions contribute nothing.
func TriageErrors(records []response.Record, conditions []string, tolerance float64) map[string]ErrorBreakdown {
	out := make(map[string]ErrorBreakdown, len(conditions))
	for _, cond := range conditions {
		out[cond] = ErrorBreakdown{}
	}

	for i := range records {
		rec := &records[i]
		if rec.GroundTruthNumeric == nil {
			continue
		}
		gt := *rec.GroundTruthNumeric
		for _, cond := range conditions {
			extracted, present := rec.ExtractedAnswers[cond]
			if !present || answer.IsCorrect(extracted, rec.GroundTruthNumeric, tolerance) {
				continue
			}
			b := out[cond]
			b.Total++
			switch {
			case extracted == nil:
				b.Formatting++
			case relativeError(*extracted, gt) > conceptualThreshold:
				b.Conceptual++
			default:
				b.Arithmetic++
			}
			out[cond] = b
		}
	}
	return out
}

func relativeError(pred, gt float64) float64 {
	denom := math.Abs(gt)
	if denom == 0 {
		denom = 1
	}
	return math.Abs(pred-gt) / denom
}

// arithmeticRe matches the "a op b = c" expressions models write while
// reasoning. x and × are accepted as multiplication.
var arithmeticRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([-+*/x×])\s*(-?\d+(?:\.\d+)?)\s*=\s*(-?\d+(?:\.\d+)?)`)

// arithmeticTolerance absorbs the two-decimal rounding models use when
// writing out division results.
const arithmeticTolerance = 0.01

// ArithmeticFinding is one miscalculated expression found in a response.
type ArithmeticFinding struct {
	ProblemID  string  `json:"problem_id"`
	Condition  string  `json:"condition"`
	Expression string  `json:"expression"`
	Claimed    float64 `json:"claimed"`
	Actual     float64 `json:"actual"`
}

// ScanArithmetic parses simple binary arithmetic out of each response and
// flags expressions whose claimed result does not match. Division by zero
// is skipped rather than flagged.
func ScanArithmetic(records []response.Record, conditions []string) []ArithmeticFinding {
	var out []ArithmeticFinding
	for i := range records {
		rec := &records[i]
		for _, cond := range conditions {
			text := rec.Responses[cond]
			if text == nil {
				continue
			}
			for _, m := range arithmeticRe.FindAllStringSubmatch(*text, -1) {
				a, errA := strconv.ParseFloat(m[1], 64)
				b, errB := strconv.ParseFloat(m[3], 64)
				claimed, errC := strconv.ParseFloat(m[4], 64)
				if errA != nil || errB != nil || errC != nil {
					continue
				}
				actual, ok := apply(a, m[2], b)
				if !ok || math.Abs(actual-claimed) <= arithmeticTolerance {
					continue
				}
				out = append(out, ArithmeticFinding{
					ProblemID:  rec.ProblemID,
					Condition:  cond,
					Expression: fmt.Sprintf("%s %s %s = %s", m[1], m[2], m[3], m[4]),
					Claimed:    claimed,
					Actual:     actual,
				})
			}
		}
	}
	return out
}

func apply(a float64, op string, b float64) (float64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*", "x", "×":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}
