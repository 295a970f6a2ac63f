package response

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strp(s string) *string   { return &s }
func f64p(v float64) *float64 { return &v }

func TestRoundTrip_PreservesNulls(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "responses.jsonl")
	in := []Record{
		{
			ProblemID:   "gsm8k_000",
			Question:    "2+2?",
			GroundTruth: "2+2=4\n#### 4",
			Model:       "x-ai/grok-4.1-fast",
			Responses: map[string]*string{
				"outcome":    strp("4"),
				"process":    nil, // inference failed upstream
				"structured": strp("Final Answer: 4"),
			},
			ExtractedAnswers: map[string]*float64{
				"outcome":    f64p(4),
				"process":    nil,
				"structured": f64p(4),
			},
			GroundTruthNumeric: f64p(4),
		},
	}

	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Skipped != 0 {
		t.Fatalf("skipped: got %d want 0", res.Skipped)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records: got %d want 1", len(res.Records))
	}

	got := res.Records[0]
	if got.ProblemID != "gsm8k_000" || got.Model != "x-ai/grok-4.1-fast" {
		t.Fatalf("identity fields: %+v", got)
	}

	v, present := got.Responses["process"]
	if !present {
		t.Fatalf("null response dropped from map")
	}
	if v != nil {
		t.Fatalf("null response became %q", *v)
	}

	e, present := got.ExtractedAnswers["process"]
	if !present || e != nil {
		t.Fatalf("null extracted answer not preserved")
	}
	if got.ExtractedAnswers["outcome"] == nil || *got.ExtractedAnswers["outcome"] != 4 {
		t.Fatalf("extracted outcome: %+v", got.ExtractedAnswers)
	}
	if got.GroundTruthNumeric == nil || *got.GroundTruthNumeric != 4 {
		t.Fatalf("ground truth numeric not preserved")
	}
}

func TestReadFile_SkipsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "responses.jsonl")
	contents := strings.Join([]string{
		`{"problem_id":"a","question":"q","ground_truth":"#### 1","responses":{}}`,
		`{not json`,
		``,
		`{"question":"missing id","ground_truth":"","responses":{}}`,
		`{"problem_id":"b","question":"q","ground_truth":"#### 2","responses":{"outcome":null}}`,
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records: got %d want 2", len(res.Records))
	}
	if res.Skipped != 2 {
		t.Fatalf("skipped: got %d want 2", res.Skipped)
	}
}

func TestAppendAndExistingIDs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "responses.jsonl")

	ids, err := ExistingIDs(path)
	if err != nil {
		t.Fatalf("ExistingIDs missing file: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("missing file should yield empty set")
	}

	for _, id := range []string{"gsm8k_000", "gsm8k_001"} {
		rec := &Record{ProblemID: id, Question: "q", Responses: map[string]*string{}}
		if err := AppendFile(path, rec); err != nil {
			t.Fatalf("AppendFile: %v", err)
		}
	}

	ids, err = ExistingIDs(path)
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	if !ids["gsm8k_000"] || !ids["gsm8k_001"] || len(ids) != 2 {
		t.Fatalf("ids: got %v", ids)
	}
}
