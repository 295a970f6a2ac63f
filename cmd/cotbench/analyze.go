package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
	"github.com/stellarlinkco/cot-bench/internal/annotation"
	"github.com/stellarlinkco/cot-bench/internal/response"
	"github.com/stellarlinkco/cot-bench/internal/store"
)

type analyzeOptions struct {
	inPath          string
	annotationsPath string
	output          string
	save            bool
}

func newAnalyzeCmd(st *cliState) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute accuracy, significance tests, and correlations",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.inPath, "in", "", "extracted responses path (default <data_dir>/responses_extracted.jsonl)")
	cmd.Flags().StringVar(&opts.annotationsPath, "annotations", "", "interpretability annotations JSONL (optional)")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the run to the results store")

	return cmd
}

func runAnalyze(cmd *cobra.Command, st *cliState, opts *analyzeOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("analyze: missing config (internal error)")
	}

	format := parseOutputFormat(opts.output)
	if format == "" {
		return fmt.Errorf("analyze: invalid --output %q (expected table|json)", opts.output)
	}

	inPath := strings.TrimSpace(opts.inPath)
	if inPath == "" {
		inPath = filepath.Join(st.cfg.Paths.DataDir, "responses_extracted.jsonl")
	}

	read, err := response.ReadFile(inPath)
	if err != nil {
		return err
	}

	var annotations []annotation.Annotation
	if path := strings.TrimSpace(opts.annotationsPath); path != "" {
		anns, skipped, err := annotation.Load(path)
		if err != nil {
			return err
		}
		if skipped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %d malformed annotation lines\n", skipped)
		}
		annotations = anns
	}

	result, err := analysis.Analyze(read.Records, annotations, analysis.Options{
		Conditions: st.cfg.Evaluation.Conditions,
		Tolerance:  st.cfg.Evaluation.Tolerance,
		Skipped:    read.Skipped,
	})
	if err != nil {
		return err
	}

	if opts.save {
		runs, err := store.NewStore(st.cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer runs.Close()

		run := &store.Run{Result: result}
		if err := runs.Save(cmd.Context(), run); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved analysis run %d\n", run.ID)
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatResult(result, format))
	return nil
}
