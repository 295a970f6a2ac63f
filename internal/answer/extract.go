// Package answer normalizes free-text model output and raw ground-truth
// strings into comparable numeric values.
package answer

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTolerance is the absolute tolerance used when comparing extracted
// answers against ground truth. GSM8K answers are exact integers or simple
// decimals, so an absolute bound avoids float representation false negatives.
const DefaultTolerance = 1e-6

var (
	// Models prompted for structure are asked to emit "Final Answer: <n>".
	finalAnswerRe = regexp.MustCompile(`(?i)Final Answer:\s*([^\n]+)`)

	numberRe = regexp.MustCompile(`-?\d*\.?\d+(?:[eE][-+]?\d+)?`)

	digitRe = regexp.MustCompile(`\d`)
)

// ExtractNumber pulls a canonical numeric answer out of free-form model
// output. The marker line wins when it carries digits; otherwise the last
// numeric run anywhere in the text is used. ok is false when the text holds
// no number at all.
func ExtractNumber(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}

	if m := finalAnswerRe.FindStringSubmatch(text); m != nil {
		candidate := m[1]
		// A marker with no digits ("Final Answer: unknown") falls through
		// to the whole-text scan.
		if digitRe.MatchString(candidate) {
			if v, ok := lastNumber(candidate); ok {
				return v, true
			}
		}
	}

	return lastNumber(text)
}

// lastNumber strips decorations and returns the last numeric run in s.
func lastNumber(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	cleaned = strings.ReplaceAll(cleaned, `"`, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	runs := numberRe.FindAllString(cleaned, -1)
	if len(runs) == 0 {
		return 0, false
	}

	v, err := strconv.ParseFloat(runs[len(runs)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NormalizeGroundTruth extracts the numeric value from a raw GSM8K answer
// string. The dataset marks the final value with a trailing "#### <n>";
// answers without the delimiter are scanned whole.
func NormalizeGroundTruth(s string) (float64, bool) {
	if idx := strings.LastIndex(s, "####"); idx >= 0 {
		return ExtractNumber(s[idx+4:])
	}
	return ExtractNumber(s)
}
