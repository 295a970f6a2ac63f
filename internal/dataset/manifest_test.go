package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadGSM8K(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "gsm8k.jsonl", strings.Join([]string{
		`{"question":"2+2?","answer":"2+2=4\n#### 4"}`,
		``,
		`{"question":"","answer":"skipped"}`,
		`{"question":"3*3?","answer":"#### 9"}`,
	}, "\n"))

	problems, err := LoadGSM8K(path)
	if err != nil {
		t.Fatalf("LoadGSM8K: %v", err)
	}
	if len(problems) != 2 {
		t.Fatalf("problems: got %d want 2", len(problems))
	}
	if problems[0].Question != "2+2?" {
		t.Fatalf("question: got %q", problems[0].Question)
	}
}

func TestLoadGSM8K_Malformed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.jsonl", "{not json}\n")
	if _, err := LoadGSM8K(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSample_Deterministic(t *testing.T) {
	t.Parallel()

	problems := make([]Problem, 20)
	for i := range problems {
		problems[i] = Problem{Question: strings.Repeat("q", i+1), Answer: "#### 1"}
	}

	a, err := Sample(problems, 5, 42)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	b, err := Sample(problems, 5, 42)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if len(a) != 5 {
		t.Fatalf("sample size: got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different samples at %d", i)
		}
	}
	if a[0].ID != "gsm8k_000" || a[4].ID != "gsm8k_004" {
		t.Fatalf("ids: got %q .. %q", a[0].ID, a[4].ID)
	}

	c, err := Sample(problems, 5, 7)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	same := true
	for i := range a {
		if a[i].Question != c[i].Question {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical samples")
	}
}

func TestSample_ClampsToPopulation(t *testing.T) {
	t.Parallel()

	problems := []Problem{{Question: "q", Answer: "#### 1"}}
	got, err := Sample(problems, 10, 1)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d want 1", len(got))
	}
}

func TestManifestRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "manifest.jsonl")
	in := []Problem{
		{ID: "gsm8k_000", Question: "2+2?", Answer: "#### 4"},
		{ID: "gsm8k_001", Question: "3*3?", Answer: "#### 9"},
	}
	if err := WriteManifest(path, in); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	out, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestReadManifest_MissingID(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "manifest.jsonl", `{"question":"q","answer":"a"}`+"\n")
	if _, err := ReadManifest(path); err == nil {
		t.Fatalf("expected error for missing problem_id")
	}
}
