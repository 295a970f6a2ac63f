package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// DefaultConditions are the three prompting conditions the study compares.
var DefaultConditions = []string{"outcome", "process", "structured"}

type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Storage    StorageConfig    `yaml:"storage"`
	Paths      PathsConfig      `yaml:"paths"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type PipelineConfig struct {
	SampleSize int           `yaml:"sample_size"`
	Seed       int64         `yaml:"seed"`
	RateLimit  time.Duration `yaml:"rate_limit,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty"`
	RetryBase  time.Duration `yaml:"retry_base,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

type EvaluationConfig struct {
	Tolerance  float64  `yaml:"tolerance,omitempty"`
	Conditions []string `yaml:"conditions,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file path
}

type PathsConfig struct {
	DataDir    string `yaml:"data_dir,omitempty"`
	ResultsDir string `yaml:"results_dir,omitempty"`
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with every default applied, for callers that run
// without a config file (tests, ad hoc analysis).
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "openai"
	}

	if cfg.Pipeline.SampleSize <= 0 {
		cfg.Pipeline.SampleSize = 200
	}
	if cfg.Pipeline.Seed == 0 {
		cfg.Pipeline.Seed = 42
	}
	if cfg.Pipeline.RateLimit <= 0 {
		cfg.Pipeline.RateLimit = time.Second
	}
	if cfg.Pipeline.MaxRetries <= 0 {
		cfg.Pipeline.MaxRetries = 4
	}
	if cfg.Pipeline.RetryBase <= 0 {
		cfg.Pipeline.RetryBase = 2 * time.Second
	}
	if cfg.Pipeline.Timeout <= 0 {
		cfg.Pipeline.Timeout = 60 * time.Second
	}

	if cfg.Evaluation.Tolerance <= 0 {
		cfg.Evaluation.Tolerance = 1e-6
	}
	if len(cfg.Evaluation.Conditions) == 0 {
		cfg.Evaluation.Conditions = append([]string(nil), DefaultConditions...)
	}

	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = "data/cot-bench.db"
	}
	if strings.TrimSpace(cfg.Paths.DataDir) == "" {
		cfg.Paths.DataDir = "data"
	}
	if strings.TrimSpace(cfg.Paths.ResultsDir) == "" {
		cfg.Paths.ResultsDir = "results"
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	} else if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}
}

func validate(cfg *Config) error {
	for _, cond := range cfg.Evaluation.Conditions {
		if strings.TrimSpace(cond) == "" {
			return fmt.Errorf("config: empty condition label")
		}
	}
	seen := make(map[string]bool, len(cfg.Evaluation.Conditions))
	for _, cond := range cfg.Evaluation.Conditions {
		if seen[cond] {
			return fmt.Errorf("config: duplicate condition %q", cond)
		}
		seen[cond] = true
	}
	return nil
}
