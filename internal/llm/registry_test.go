package llm

import (
	"context"
	"testing"

	"github.com/stellarlinkco/cot-bench/internal/config"
)

type fakeProvider struct {
	name string
}

func (f fakeProvider) Name() string { return f.name }

func (f fakeProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	return &Response{Text: "ok"}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(fakeProvider{name: "Fake"})

	if _, ok := r.Get("fake"); !ok {
		t.Fatalf("Get(fake) ok=false (lookup should be case-insensitive)")
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("Get(missing) ok=true")
	}
	if _, ok := r.Get(""); ok {
		t.Fatalf("Get(empty) ok=true")
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"openai": {APIKey: "k", Model: "x-ai/grok-4.1-fast"},
		"claude": {APIKey: "k"},
	}

	r, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}
	if _, ok := r.Get("openai"); !ok {
		t.Fatalf("openai provider missing")
	}
	if _, ok := r.Get("claude"); !ok {
		t.Fatalf("claude provider missing")
	}
}

func TestNewRegistryFromConfig_Unknown(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.Providers = map[string]config.ProviderConfig{"mistral": {}}

	if _, err := NewRegistryFromConfig(cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestDefaultProviderFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = map[string]config.ProviderConfig{"openai": {APIKey: "k"}}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_FallsBackToOnlyProvider(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.DefaultProvider = "claude"
	cfg.LLM.Providers = map[string]config.ProviderConfig{"openai": {APIKey: "k"}}

	p, err := DefaultProviderFromConfig(cfg)
	if err != nil {
		t.Fatalf("DefaultProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("provider: got %q", p.Name())
	}
}

func TestDefaultProviderFromConfig_NoneConfigured(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	if _, err := DefaultProviderFromConfig(cfg); err == nil {
		t.Fatalf("expected error with no providers")
	}
}
