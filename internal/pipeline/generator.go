// Package pipeline drives the study end to end: response generation
// against a provider, then answer extraction over the collected records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/stellarlinkco/cot-bench/internal/dataset"
	"github.com/stellarlinkco/cot-bench/internal/llm"
	"github.com/stellarlinkco/cot-bench/internal/prompt"
	"github.com/stellarlinkco/cot-bench/internal/response"
)

// Generator runs inference for every (problem, condition) pair. Calls are
// sequential and rate limited; a failed call is retried with doubling
// backoff and, on exhaustion, recorded as a null response so the batch
// never aborts.
type Generator struct {
	Provider   llm.Provider
	Conditions []string
	Model      string
	MaxTokens  int
	MaxRetries int
	RetryBase  time.Duration
	RateLimit  time.Duration
	Timeout    time.Duration
	Log        io.Writer
}

// GenerateResult summarizes one generation pass.
type GenerateResult struct {
	Processed int // problems newly written this pass
	Resumed   int // problems already present and skipped
	Failures  int // (problem, condition) calls that exhausted retries
}

// Run generates responses for every manifest problem not yet present in
// the output file, appending one record per problem as it completes.
func (g *Generator) Run(ctx context.Context, problems []dataset.Problem, outPath string) (*GenerateResult, error) {
	if g == nil {
		return nil, errors.New("pipeline: nil generator")
	}
	if ctx == nil {
		return nil, errors.New("pipeline: nil context")
	}
	if g.Provider == nil {
		return nil, errors.New("pipeline: nil provider")
	}
	if len(g.Conditions) == 0 {
		return nil, errors.New("pipeline: no conditions")
	}
	for _, cond := range g.Conditions {
		if !prompt.Known(cond) {
			return nil, fmt.Errorf("pipeline: unknown condition %q", cond)
		}
	}

	existing, err := response.ExistingIDs(outPath)
	if err != nil {
		return nil, err
	}

	out := &GenerateResult{}
	for i := range problems {
		p := &problems[i]
		if existing[p.ID] {
			out.Resumed++
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		rec := response.Record{
			ProblemID:   p.ID,
			Question:    p.Question,
			GroundTruth: p.Answer,
			Model:       strings.TrimSpace(g.Model),
			Responses:   make(map[string]*string, len(g.Conditions)),
		}

		for _, cond := range g.Conditions {
			text, callErr := g.completeOne(ctx, cond, p.Question)
			if callErr != nil {
				if errors.Is(callErr, context.Canceled) || errors.Is(callErr, context.DeadlineExceeded) {
					return out, callErr
				}
				g.logf("%s/%s: giving up: %v", p.ID, cond, callErr)
				rec.Responses[cond] = nil
				out.Failures++
			} else {
				rec.Responses[cond] = &text
			}

			if err := llm.SleepWithContext(ctx, g.RateLimit); err != nil {
				return out, err
			}
		}

		if err := response.AppendFile(outPath, &rec); err != nil {
			return out, err
		}
		out.Processed++
	}
	return out, nil
}

// completeOne calls the provider with bounded exponential backoff.
func (g *Generator) completeOne(ctx context.Context, condition, question string) (string, error) {
	rendered, err := prompt.Render(condition, question)
	if err != nil {
		return "", err
	}

	req := &llm.Request{
		Prompt:    rendered,
		Model:     g.Model,
		MaxTokens: g.MaxTokens,
	}

	for attempt := 0; ; attempt++ {
		callCtx := ctx
		var cancel context.CancelFunc
		if g.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		}
		res, err := g.Provider.Complete(callCtx, req)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			if res == nil {
				return "", errors.New("pipeline: provider returned nil response")
			}
			return res.Text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !llm.ShouldRetry(err) || attempt >= g.MaxRetries {
			return "", err
		}

		wait := llm.Backoff(g.RetryBase, attempt)
		g.logf("attempt %d/%d failed (%v), retrying in %s", attempt+1, g.MaxRetries+1, err, wait)
		if err := llm.SleepWithContext(ctx, wait); err != nil {
			return "", err
		}
	}
}

func (g *Generator) logf(format string, args ...any) {
	if g.Log == nil {
		return
	}
	fmt.Fprintf(g.Log, format+"\n", args...)
}
