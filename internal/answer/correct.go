package answer

import "math"

// IsCorrect reports whether an extracted answer matches ground truth within
// an absolute tolerance. A nil prediction (extraction failure) or nil ground
// truth always scores incorrect, never undetermined.
func IsCorrect(extracted, groundTruth *float64, tolerance float64) bool {
	if extracted == nil || groundTruth == nil {
		return false
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return math.Abs(*extracted-*groundTruth) < tolerance
}
