// Package llm abstracts the model inference call. Providers are plain
// single-turn completions; everything this pipeline sends is one user
// prompt per condition.
package llm

import "context"

type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Response, error)
}

type Request struct {
	Prompt      string
	Model       string // overrides the provider default when set
	MaxTokens   int
	Temperature float64
}

type Response struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}
