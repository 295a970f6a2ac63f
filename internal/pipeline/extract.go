package pipeline

import (
	"errors"

	"github.com/stellarlinkco/cot-bench/internal/answer"
	"github.com/stellarlinkco/cot-bench/internal/response"
)

// Extract attaches the derived numeric fields to each record: one nullable
// extracted answer per condition plus the normalized ground truth. A null
// raw response or a digitless response yields a null extracted answer,
// which is distinct from a wrong answer all the way downstream.
func Extract(records []response.Record) []response.Record {
	out := make([]response.Record, len(records))
	for i, rec := range records {
		extracted := make(map[string]*float64, len(rec.Responses))
		for cond, text := range rec.Responses {
			if text == nil {
				extracted[cond] = nil
				continue
			}
			if v, ok := answer.ExtractNumber(*text); ok {
				val := v
				extracted[cond] = &val
			} else {
				extracted[cond] = nil
			}
		}
		rec.ExtractedAnswers = extracted

		if v, ok := answer.NormalizeGroundTruth(rec.GroundTruth); ok {
			val := v
			rec.GroundTruthNumeric = &val
		} else {
			rec.GroundTruthNumeric = nil
		}
		out[i] = rec
	}
	return out
}

// ExtractFile reads a raw response file, derives the numeric fields, and
// writes the augmented records. Returns the processed and skipped counts.
func ExtractFile(inPath, outPath string) (processed, skipped int, err error) {
	res, err := response.ReadFile(inPath)
	if err != nil {
		return 0, 0, err
	}
	if len(res.Records) == 0 {
		return 0, res.Skipped, errors.New("pipeline: no valid records to extract")
	}

	augmented := Extract(res.Records)
	if err := response.WriteFile(outPath, augmented); err != nil {
		return 0, res.Skipped, err
	}
	return len(augmented), res.Skipped, nil
}
