package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/pipeline"
)

type extractOptions struct {
	inPath  string
	outPath string
}

func newExtractCmd(st *cliState) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract numeric answers from generated responses",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.inPath, "in", "", "responses path (default <data_dir>/responses.jsonl)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "output path (default <data_dir>/responses_extracted.jsonl)")

	return cmd
}

func runExtract(cmd *cobra.Command, st *cliState, opts *extractOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("extract: missing config (internal error)")
	}

	inPath := strings.TrimSpace(opts.inPath)
	if inPath == "" {
		inPath = filepath.Join(st.cfg.Paths.DataDir, "responses.jsonl")
	}
	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "" {
		outPath = filepath.Join(st.cfg.Paths.DataDir, "responses_extracted.jsonl")
	}

	processed, skipped, err := pipeline.ExtractFile(inPath, outPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted answers for %d records into %s\n", processed, outPath)
	if skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d malformed lines\n", skipped)
	}
	return nil
}
