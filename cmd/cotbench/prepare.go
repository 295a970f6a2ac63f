package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/dataset"
)

type prepareOptions struct {
	datasetPath string
	outPath     string
	sampleSize  int
	seed        int64
}

func newPrepareCmd(st *cliState) *cobra.Command {
	var opts prepareOptions

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Sample the dataset into a problem manifest",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "GSM8K JSONL file (required)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "manifest output path (default <data_dir>/manifest.jsonl)")
	cmd.Flags().IntVar(&opts.sampleSize, "sample-size", 0, "problems to sample (overrides config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "sampling seed (overrides config)")

	return cmd
}

func runPrepare(cmd *cobra.Command, st *cliState, opts *prepareOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("prepare: missing config (internal error)")
	}
	if strings.TrimSpace(opts.datasetPath) == "" {
		return fmt.Errorf("prepare: --dataset is required")
	}

	sampleSize := st.cfg.Pipeline.SampleSize
	if opts.sampleSize > 0 {
		sampleSize = opts.sampleSize
	}
	seed := st.cfg.Pipeline.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}
	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = filepath.Join(st.cfg.Paths.DataDir, "manifest.jsonl")
	}

	problems, err := dataset.LoadGSM8K(opts.datasetPath)
	if err != nil {
		return err
	}

	sampled, err := dataset.Sample(problems, sampleSize, seed)
	if err != nil {
		return err
	}
	if err := dataset.WriteManifest(outPath, sampled); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sampled %d of %d problems (seed %d) into %s\n",
		len(sampled), len(problems), seed, outPath)
	return nil
}
