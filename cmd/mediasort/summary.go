package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mediasort/internal/pipeline"
	"mediasort/internal/preflight"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printPreflight(cmd *cobra.Command, results []preflight.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, res := range results {
		label := "OK"
		color := ansiGreen
		if !res.Passed {
			label = "FAIL"
			color = ansiRed
		}
		line := fmt.Sprintf("  %-20s [%s] %s", res.Name+":", label, res.Detail)
		if colorize {
			line = color + line + ansiReset
		}
		fmt.Fprintln(out, line)
	}
}

func printSummary(cmd *cobra.Command, summary pipeline.Summary, unsupported int, preview bool) {
	out := cmd.OutOrStdout()

	title := "Run summary"
	if preview {
		title = "Run summary (preview, nothing written)"
	}
	fmt.Fprintf(out, "\n%s — %d files in %s\n", title, summary.Total(), summary.Duration.Round(10*time.Millisecond))

	rows := [][]string{
		{"moved", strconv.Itoa(summary.Count(pipeline.OutcomeMoved))},
		{"renamed (conflict)", strconv.Itoa(summary.Count(pipeline.OutcomeRenamed))},
		{"duplicates skipped", strconv.Itoa(summary.Count(pipeline.OutcomeSkippedDuplicate))},
		{"duplicates deleted", strconv.Itoa(summary.Count(pipeline.OutcomeDeletedDuplicate))},
		{"skipped (no date)", strconv.Itoa(summary.Count(pipeline.OutcomeSkippedNoDate))},
		{"unsupported", strconv.Itoa(summary.Count(pipeline.OutcomeSkippedUnsupported) + unsupported)},
		{"errors", strconv.Itoa(summary.Count(pipeline.OutcomeFailed))},
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Count"}, rows, 2))

	failures := summary.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(out, "\nFailures:")
	failureRows := make([][]string, 0, len(failures))
	for _, res := range failures {
		reason := ""
		if res.Err != nil {
			reason = res.Err.Error()
		}
		failureRows = append(failureRows, []string{res.Source, truncate(reason, 100)})
	}
	fmt.Fprintln(out, renderTable([]string{"File", "Reason"}, failureRows))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
