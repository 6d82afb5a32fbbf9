package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/config"
	"mediasort/internal/journal"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history <target>",
		Short: "Show past organizer runs recorded in the target's journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cmdCtx.ensureConfig(); err != nil {
				return err
			}
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			store, err := journal.Open(target)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				return printRunResults(cmd, store, runID)
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-file results for one run ID")

	return cmd
}

func printRuns(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			finished,
			run.SourceDir,
			strconv.FormatBool(run.Preview),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Started", "Finished", "Source", "Preview"}, rows))
	return nil
}

func printRunResults(cmd *cobra.Command, store *journal.Store, runID string) error {
	entries, err := store.RunResults(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		detail := entry.FinalPath
		if entry.Error != "" {
			detail = entry.Error
		}
		rows = append(rows, []string{
			entry.SourcePath,
			entry.Outcome,
			entry.Provenance,
			truncate(detail, 80),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Source", "Outcome", "Date source", "Destination / Error"}, rows))
	return nil
}
