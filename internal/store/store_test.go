package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
	"github.com/stellarlinkco/cot-bench/internal/stats"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testResult() *analysis.Result {
	return &analysis.Result{
		Model:      "x-ai/grok-4.1-fast",
		Conditions: []string{"outcome", "process", "structured"},
		Problems:   200,
		Accuracy: map[string]analysis.AccuracySummary{
			"outcome":    {Accuracy: 0.82, Correct: 164, Attempts: 200, Defined: true},
			"process":    {Accuracy: 0.915, Correct: 183, Attempts: 200, Defined: true},
			"structured": {Accuracy: 0.9, Correct: 180, Attempts: 200, Defined: true},
		},
		Comparisons: []analysis.PairComparison{{
			A: "outcome", B: "process", N: 200,
			McNemar: stats.PairedTest{Stat: 12.0, P: 0.000532, N: 200, Defined: true},
		}},
	}
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{Result: testResult()}
	if err := s.Save(ctx, run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if run.ID == 0 {
		t.Fatalf("ID not backfilled")
	}
	// Denormalized fields come from the result when unset.
	if run.Model != "x-ai/grok-4.1-fast" || run.Problems != 200 || len(run.Conditions) != 3 {
		t.Fatalf("backfill: %+v", run)
	}
	if run.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not backfilled")
	}

	got, err := s.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Model != run.Model || got.Problems != 200 {
		t.Fatalf("got: %+v", got)
	}
	if got.Result == nil {
		t.Fatalf("result not decoded")
	}
	acc := got.Result.Accuracy["process"]
	if !acc.Defined || math.Abs(acc.Accuracy-0.915) > 1e-12 {
		t.Fatalf("round-tripped accuracy: %+v", acc)
	}
	if len(got.Result.Comparisons) != 1 || !got.Result.Comparisons[0].McNemar.Defined {
		t.Fatalf("round-tripped comparisons: %+v", got.Result.Comparisons)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err: %v", err)
	}
	if _, err := s.Latest(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("latest on empty store: %v", err)
	}
}

func TestLatestAndList(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := &Run{
			Model:     "x-ai/grok-4.1-fast",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Result:    testResult(),
		}
		if err := s.Save(ctx, run); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !latest.CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("latest: %+v", latest)
	}

	runs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs: got %d want 2", len(runs))
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Fatalf("not newest first: %v %v", runs[0].CreatedAt, runs[1].CreatedAt)
	}
	// Listing stays cheap: no decoded result.
	if runs[0].Result != nil {
		t.Fatalf("list must not decode results")
	}
}

func TestSave_Validation(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, nil); err == nil {
		t.Fatalf("nil run accepted")
	}
	if err := s.Save(ctx, &Run{}); err == nil {
		t.Fatalf("run without result accepted")
	}
}

func TestNewStore_CreatesDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()

	if err := s.Save(context.Background(), &Run{Result: testResult()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestNewStore_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewStore("  "); err == nil {
		t.Fatalf("empty path accepted")
	}
}
