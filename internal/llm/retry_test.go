package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	if ShouldRetry(nil) {
		t.Fatalf("nil error should not retry")
	}
	if ShouldRetry(errors.New("boom")) {
		t.Fatalf("generic error should not retry")
	}
	if !ShouldRetry(&openai.APIError{HTTPStatusCode: 500}) {
		t.Fatalf("500 should retry")
	}
	if !ShouldRetry(&openai.APIError{HTTPStatusCode: 429}) {
		t.Fatalf("429 should retry")
	}
	if ShouldRetry(&openai.APIError{HTTPStatusCode: 401}) {
		t.Fatalf("401 should not retry")
	}
	if ShouldRetry(&openai.APIError{HTTPStatusCode: 400}) {
		t.Fatalf("400 should not retry")
	}
}

func TestBackoff_Doubles(t *testing.T) {
	t.Parallel()

	base := 2 * time.Second
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}
	for attempt, w := range want {
		if got := Backoff(base, attempt); got != w {
			t.Fatalf("attempt %d: got %v want %v", attempt, got, w)
		}
	}

	if Backoff(0, 3) != 0 {
		t.Fatalf("zero base should yield zero wait")
	}
	if Backoff(base, -1) != 0 {
		t.Fatalf("negative attempt should yield zero wait")
	}
}

func TestSleepWithContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := SleepWithContext(ctx, time.Minute); err == nil {
		t.Fatalf("cancelled context should abort the sleep")
	}
}

func TestSleepWithContext_ZeroDuration(t *testing.T) {
	t.Parallel()

	if err := SleepWithContext(context.Background(), 0); err != nil {
		t.Fatalf("zero duration: %v", err)
	}
}
