package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/cot-bench/internal/analysis"
	"github.com/stellarlinkco/cot-bench/internal/store"
)

type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

func parseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable
	case "json", "jsonl":
		return FormatJSON
	default:
		return ""
	}
}

func FormatResult(res *analysis.Result, format OutputFormat) string {
	switch format {
	case FormatTable:
		return formatResultTable(res)
	case FormatJSON:
		return formatResultJSON(res)
	default:
		return fmt.Sprintf("error: unknown output format %q\n", format)
	}
}

func formatResultTable(res *analysis.Result) string {
	if res == nil {
		return "no result\n"
	}

	var buf bytes.Buffer
	if res.Model != "" {
		fmt.Fprintf(&buf, "Model: %s\n", res.Model)
	}
	fmt.Fprintf(&buf, "Problems: %d", res.Problems)
	if res.Skipped > 0 {
		fmt.Fprintf(&buf, " (skipped %d malformed lines)", res.Skipped)
	}
	buf.WriteByte('\n')

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tACCURACY\tCORRECT\tATTEMPTS")
	for _, cond := range res.Conditions {
		acc := res.Accuracy[cond]
		if acc.Defined {
			fmt.Fprintf(tw, "%s\t%.1f%%\t%d\t%d\n", cond, acc.Accuracy*100, acc.Correct, acc.Attempts)
		} else {
			fmt.Fprintf(tw, "%s\tn/a\t%d\t%d\n", cond, acc.Correct, acc.Attempts)
		}
	}
	_ = tw.Flush()

	if len(res.Comparisons) > 0 {
		buf.WriteByte('\n')
		tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PAIR\tN\tMCNEMAR\tP\tT\tP\tCOHEN'S D")
		for _, pc := range res.Comparisons {
			fmt.Fprintf(tw, "%s vs %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				pc.A, pc.B, pc.N,
				testStat(pc.McNemar.Stat, pc.McNemar.Defined),
				testStat(pc.McNemar.P, pc.McNemar.Defined),
				testStat(pc.TTest.Stat, pc.TTest.Defined),
				testStat(pc.TTest.P, pc.TTest.Defined),
				testStat(pc.CohensD, pc.CohensDDefined))
		}
		_ = tw.Flush()
	}

	if res.Correlation != nil {
		fmt.Fprintf(&buf, "\nCorrelation sample: n=%d\n", res.Correlation.N)
		tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "METRIC\tPEARSON R\tP")
		for _, metric := range res.Correlation.Metrics {
			test, ok := res.Correlation.AccuracyTests[metric]
			if !ok {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				metric, testStat(test.R, test.Defined), testStat(test.P, test.Defined))
		}
		_ = tw.Flush()
	}

	if len(res.Errors) > 0 {
		buf.WriteByte('\n')
		tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CONDITION\tFORMATTING\tCONCEPTUAL\tARITHMETIC\tTOTAL")
		for _, cond := range res.Conditions {
			b, ok := res.Errors[cond]
			if !ok || b.Total == 0 {
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", cond, b.Formatting, b.Conceptual, b.Arithmetic, b.Total)
		}
		_ = tw.Flush()
	}

	if n := len(res.Arithmetic); n > 0 {
		fmt.Fprintf(&buf, "\nArithmetic inconsistencies: %d\n", n)
	}
	return buf.String()
}

func testStat(v float64, defined bool) string {
	if !defined {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatResultJSON(res *analysis.Result) string {
	if res == nil {
		return "{\"error\":\"nil result\"}\n"
	}
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Sprintf("{\"error\":%q}\n", err.Error())
	}
	return string(b) + "\n"
}

func FormatRuns(runs []store.Run, format OutputFormat) string {
	switch format {
	case FormatTable:
		return formatRunsTable(runs)
	case FormatJSON:
		b, err := json.Marshal(runs)
		if err != nil {
			return fmt.Sprintf("{\"error\":%q}\n", err.Error())
		}
		return string(b) + "\n"
	default:
		return fmt.Sprintf("error: unknown output format %q\n", format)
	}
}

func formatRunsTable(runs []store.Run) string {
	if len(runs) == 0 {
		return "No saved runs\n"
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tMODEL\tCONDITIONS\tPROBLEMS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Model,
			strings.Join(r.Conditions, ","), r.Problems)
	}
	_ = tw.Flush()
	return buf.String()
}
