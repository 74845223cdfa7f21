package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"yaproxy-hq/yaproxy/pkg/cli"
	"yaproxy-hq/yaproxy/pkg/config"
	"yaproxy-hq/yaproxy/pkg/history"
	"yaproxy-hq/yaproxy/pkg/history/retention"
	"yaproxy-hq/yaproxy/pkg/history/storage"
)

var historyFlags struct {
	limit  int
	output string
}

var historyPruneFlags struct {
	days int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download link resolutions",
	Long: `Read the resolution history log directly from its storage backend.
Only the sqlite backend persists between runs.

Examples:
  # Show the last 20 resolutions
  yaproxy history --limit 20

  # Export everything as CSV
  yaproxy history --limit 0 --output csv`,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history records past the retention window",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 50, "number of records to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format (text, json, csv)")
	historyCmd.RegisterFlagCompletionFunc("output", completeOutputFormat)

	historyPruneCmd.Flags().IntVar(&historyPruneFlags.days, "days", 0, "override history.retention.days")
}

type recordTable []*history.Record

func (t recordTable) Header() []string {
	return []string{"TIME", "TRACK", "OUTCOME", "CODEC", "DURATION", "ERROR"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format(time.DateTime),
			r.TrackID,
			r.Outcome,
			r.Codec,
			strconv.FormatInt(r.DurationMS, 10) + "ms",
			r.Error,
		})
	}
	return rows
}

// openHistory opens the configured history backend. The log is read even
// when recording is disabled so that old records stay inspectable.
func openHistory(cfg *config.Config) (history.Storage, error) {
	store, err := storage.New(&cfg.History, discardLogger())
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.output)
	if err != nil {
		return cli.NewConfigError("output", err.Error())
	}
	if historyFlags.limit < 0 {
		return cli.NewConfigError("limit", "must not be negative")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), recordTable(records)); err != nil {
		return cli.NewCommandError("history", err)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	days := cfg.History.Retention.Days
	if historyPruneFlags.days > 0 {
		days = historyPruneFlags.days
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pruner := retention.NewPruner(store, days, nil, discardLogger())

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d records older than %d days\n", deleted, days)
	return nil
}

func discardLogger() *slog.Logger {
	if verbose {
		return slog.Default()
	}
	return slog.New(slog.DiscardHandler)
}
