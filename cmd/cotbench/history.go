package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/store"
)

type historyOptions struct {
	limit  int
	output string
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved analysis runs",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "max runs to list")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")

	cmd.AddCommand(newHistoryShowCmd(st))
	return cmd
}

func newHistoryShowCmd(st *cliState) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the full metrics of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, args[0], output)
		},
	}
	cmd.Flags().StringVar(&output, "output", "table", "output format: table|json")
	return cmd
}

func runHistoryList(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	format := parseOutputFormat(opts.output)
	if format == "" {
		return fmt.Errorf("history: invalid --output %q (expected table|json)", opts.output)
	}

	runs, err := store.NewStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer runs.Close()

	list, err := runs.List(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatRuns(list, format))
	return nil
}

func runHistoryShow(cmd *cobra.Command, st *cliState, rawID, output string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("history: missing config (internal error)")
	}

	format := parseOutputFormat(output)
	if format == "" {
		return fmt.Errorf("history: invalid --output %q (expected table|json)", output)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("history: invalid run id %q", rawID)
	}

	runs, err := store.NewStore(st.cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer runs.Close()

	run, err := runs.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), FormatResult(run.Result, format))
	return nil
}
