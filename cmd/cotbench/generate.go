package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/dataset"
	"github.com/stellarlinkco/cot-bench/internal/llm"
	"github.com/stellarlinkco/cot-bench/internal/pipeline"
)

type generateOptions struct {
	manifestPath string
	outPath      string
	model        string
	maxTokens    int
}

func newGenerateCmd(st *cliState) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate model responses for every manifest problem",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.manifestPath, "manifest", "", "manifest path (default <data_dir>/manifest.jsonl)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "responses output path (default <data_dir>/responses.jsonl)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model identifier (overrides config)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "max completion tokens")

	return cmd
}

func runGenerate(cmd *cobra.Command, st *cliState, opts *generateOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("generate: missing config (internal error)")
	}

	manifestPath := strings.TrimSpace(opts.manifestPath)
	if manifestPath == "" {
		manifestPath = filepath.Join(st.cfg.Paths.DataDir, "manifest.jsonl")
	}
	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = filepath.Join(st.cfg.Paths.DataDir, "responses.jsonl")
	}

	provider, err := llm.DefaultProviderFromConfig(st.cfg)
	if err != nil {
		return err
	}

	model := strings.TrimSpace(opts.model)
	if model == "" {
		model = st.cfg.LLM.Providers[st.cfg.LLM.DefaultProvider].Model
	}

	problems, err := dataset.ReadManifest(manifestPath)
	if err != nil {
		return err
	}

	gen := &pipeline.Generator{
		Provider:   provider,
		Conditions: st.cfg.Evaluation.Conditions,
		Model:      model,
		MaxTokens:  opts.maxTokens,
		MaxRetries: st.cfg.Pipeline.MaxRetries,
		RetryBase:  st.cfg.Pipeline.RetryBase,
		RateLimit:  st.cfg.Pipeline.RateLimit,
		Timeout:    st.cfg.Pipeline.Timeout,
		Log:        cmd.ErrOrStderr(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := gen.Run(ctx, problems, outPath)
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d problems (%d resumed, %d failed calls) into %s\n",
			res.Processed, res.Resumed, res.Failures, outPath)
	}
	return err
}
