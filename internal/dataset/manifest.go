// Package dataset loads GSM8K problems and samples them into the study
// manifest. Problems are immutable once loaded.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Problem is one manifest row. Answer is the raw GSM8K answer string and
// may carry intermediate step annotations plus a trailing "#### <n>".
type Problem struct {
	ID       string `json:"problem_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// gsm8kRow matches the upstream GSM8K JSONL shape.
type gsm8kRow struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoadGSM8K reads the raw dataset file, dropping rows without a question.
func LoadGSM8K(path string) ([]Problem, error) {
	rows, err := ReadJSONL[gsm8kRow](path)
	if err != nil {
		return nil, fmt.Errorf("dataset: load gsm8k %q: %w", path, err)
	}

	out := make([]Problem, 0, len(rows))
	for _, row := range rows {
		q := strings.TrimSpace(row.Question)
		if q == "" {
			continue
		}
		out = append(out, Problem{Question: q, Answer: row.Answer})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dataset: no usable rows in %q", path)
	}
	return out, nil
}

// Sample draws n problems without replacement using the seed, then assigns
// sequential study ids. The same seed always yields the same manifest.
func Sample(problems []Problem, n int, seed int64) ([]Problem, error) {
	if len(problems) == 0 {
		return nil, errors.New("dataset: empty problem set")
	}
	if n <= 0 {
		return nil, fmt.Errorf("dataset: invalid sample size %d", n)
	}
	if n > len(problems) {
		n = len(problems)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(problems))

	out := make([]Problem, 0, n)
	for i := 0; i < n; i++ {
		p := problems[perm[i]]
		p.ID = fmt.Sprintf("gsm8k_%03d", i)
		out = append(out, p)
	}
	return out, nil
}

// ReadManifest loads a previously written manifest, validating ids.
func ReadManifest(path string) ([]Problem, error) {
	problems, err := ReadJSONL[Problem](path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read manifest %q: %w", path, err)
	}
	for i, p := range problems {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("dataset: manifest row %d missing problem_id", i+1)
		}
	}
	return problems, nil
}

// WriteManifest stores the sampled problems as JSONL.
func WriteManifest(path string, problems []Problem) error {
	if len(problems) == 0 {
		return errors.New("dataset: refusing to write empty manifest")
	}
	return WriteJSONL(path, problems)
}
