package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/report"
	"github.com/stellarlinkco/cot-bench/internal/store"
)

type reportOptions struct {
	runID   int64
	outPath string
}

func newReportCmd(st *cliState) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown report for a saved analysis run",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, st, &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.runID, "run", 0, "run id (default latest)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", `output path (default <results_dir>/report.md, "-" for stdout)`)

	return cmd
}

func runReport(cmd *cobra.Command, st *cliState, opts *reportOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("report: missing config (internal error)")
	}

	runs, err := store.NewStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer runs.Close()

	var run *store.Run
	if opts.runID > 0 {
		run, err = runs.Get(cmd.Context(), opts.runID)
	} else {
		run, err = runs.Latest(cmd.Context())
	}
	if err != nil {
		return err
	}

	outPath := strings.TrimSpace(opts.outPath)
	if outPath == "-" {
		return report.Render(cmd.OutOrStdout(), run.Result)
	}
	if outPath == "" {
		outPath = filepath.Join(st.cfg.Paths.ResultsDir, "report.md")
	}

	if err := report.WriteFile(outPath, run.Result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote report for run %d to %s\n", run.ID, outPath)
	return nil
}
