package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stellarlinkco/cot-bench/internal/response"
)

func strp(s string) *string { return &s }

func TestExtract(t *testing.T) {
	t.Parallel()

	records := []response.Record{
		{
			ProblemID:   "gsm8k_000",
			GroundTruth: "2+2=<<2+2=4>>4\n#### 4",
			Responses: map[string]*string{
				"outcome":    strp("4"),
				"process":    strp("Adding gives us **4** apples."),
				"structured": strp("Step 1: 2+2=4\nFinal Answer: 4"),
			},
		},
		{
			ProblemID:   "gsm8k_001",
			GroundTruth: "#### 9",
			Responses: map[string]*string{
				"outcome":    nil,                           // inference failed
				"process":    strp("I cannot solve this."),  // no number
				"structured": strp("Final Answer: 10"),      // wrong answer
			},
		},
	}

	out := Extract(records)
	if len(out) != 2 {
		t.Fatalf("records: got %d", len(out))
	}

	first := out[0]
	if first.GroundTruthNumeric == nil || *first.GroundTruthNumeric != 4 {
		t.Fatalf("ground truth: %+v", first.GroundTruthNumeric)
	}
	for _, cond := range []string{"outcome", "process", "structured"} {
		v := first.ExtractedAnswers[cond]
		if v == nil || *v != 4 {
			t.Fatalf("%s: got %v want 4", cond, v)
		}
	}

	second := out[1]
	if v, present := second.ExtractedAnswers["outcome"]; !present || v != nil {
		t.Fatalf("null response must yield explicit null extraction")
	}
	if v, present := second.ExtractedAnswers["process"]; !present || v != nil {
		t.Fatalf("digitless response must yield explicit null extraction")
	}
	if v := second.ExtractedAnswers["structured"]; v == nil || *v != 10 {
		t.Fatalf("wrong answer must still extract: got %v", v)
	}
}

func TestExtract_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []response.Record{{
		ProblemID:   "a",
		GroundTruth: "#### 1",
		Responses:   map[string]*string{"outcome": strp("1")},
	}}

	_ = Extract(in)
	if in[0].ExtractedAnswers != nil {
		t.Fatalf("input slice mutated")
	}
}

func TestExtractFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "responses.jsonl")
	out := filepath.Join(dir, "responses_with_answers.jsonl")

	contents := strings.Join([]string{
		`{"problem_id":"a","question":"q","ground_truth":"#### 4","responses":{"outcome":"4"}}`,
		`{broken`,
		`{"problem_id":"b","question":"q","ground_truth":"#### 9","responses":{"outcome":null}}`,
	}, "\n")
	if err := os.WriteFile(in, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	processed, skipped, err := ExtractFile(in, out)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if processed != 2 || skipped != 1 {
		t.Fatalf("processed=%d skipped=%d", processed, skipped)
	}

	res, err := response.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records: got %d", len(res.Records))
	}
	if res.Records[0].ExtractedAnswers["outcome"] == nil {
		t.Fatalf("extraction missing after round trip")
	}
}
