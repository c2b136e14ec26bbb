package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the command journal",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
		newHistoryPruneCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			records, err := store.Records(limit, "")
			if err != nil {
				return fmt.Errorf("failed to retrieve history records: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoHistoryRecorded)
				return nil
			}
			for _, rec := range records {
				printRecord(cmd.OutOrStdout(), rec)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New(ErrQueryRequired)
			}
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			records, err := store.Records(0, "")
			if err != nil {
				return fmt.Errorf("failed to search history: %w", err)
			}
			for _, rec := range searchRecords(records, args[0], limit) {
				printRecord(cmd.OutOrStdout(), rec)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// searchRecords ranks records by fuzzy match on the command, keeping only the
// newest record per distinct command.
func searchRecords(newestFirst []domain.HistoryEntry, query string, limit int) []domain.HistoryEntry {
	seen := make(map[string]bool, len(newestFirst))
	var unique []domain.HistoryEntry
	var commands []string
	for _, rec := range newestFirst {
		if seen[rec.Command] {
			continue
		}
		seen[rec.Command] = true
		unique = append(unique, rec)
		commands = append(commands, rec.Command)
	}

	matches := fuzzy.Find(query, commands)
	out := make([]domain.HistoryEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, unique[m.Index])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			if err := store.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			return nil
		},
	}
}

// newHistoryPruneCommand creates the 'history prune' subcommand
func newHistoryPruneCommand(container *app.Container) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return errors.New(ErrInvalidRetainDays)
			}
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			n, err := store.Prune(time.Now().AddDate(0, 0, -days))
			if err != nil {
				return fmt.Errorf("failed to prune old history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries older than %d days.\n", n, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", container.Config.GetHistoryRetentionDays(), "Days to retain history")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and top commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(container)
			if err != nil {
				return err
			}
			records, err := store.Records(0, "")
			if err != nil {
				return fmt.Errorf("failed to retrieve history for analysis: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, MsgNoHistoryRecorded)
				return nil
			}
			displayHistoryStatistics(out, analyzeHistoryRecords(records))
			return nil
		},
	}
}

type commandStatistic struct {
	Command string
	Count   int
}

type historyStatistics struct {
	total      int
	completed  int
	successful int
	top        []commandStatistic
}

func analyzeHistoryRecords(records []domain.HistoryEntry) historyStatistics {
	stats := historyStatistics{total: len(records)}
	freq := make(map[string]int)
	for _, rec := range records {
		if rec.Completed() {
			stats.completed++
		}
		if rec.Succeeded() {
			stats.successful++
		}
		freq[rec.Command]++
	}

	for cmd, count := range freq {
		stats.top = append(stats.top, commandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats.top, func(i, j int) bool {
		if stats.top[i].Count == stats.top[j].Count {
			return stats.top[i].Command < stats.top[j].Command
		}
		return stats.top[i].Count > stats.top[j].Count
	})
	if len(stats.top) > 5 {
		stats.top = stats.top[:5]
	}
	return stats
}

func displayHistoryStatistics(out io.Writer, stats historyStatistics) {
	rate := 0.0
	if stats.completed > 0 {
		rate = float64(stats.successful) / float64(stats.completed) * 100
	}
	fmt.Fprintf(out, "Entries: %d\n", stats.total)
	fmt.Fprintf(out, "Success rate: %.1f%% (%d/%d)\n", rate, stats.successful, stats.completed)
	fmt.Fprintln(out, "Top commands:")
	for _, s := range stats.top {
		fmt.Fprintf(out, "  %4d  %s\n", s.Count, s.Command)
	}
}

func printRecord(out io.Writer, rec domain.HistoryEntry) {
	exit := "-"
	if rec.ExitCode != nil {
		exit = fmt.Sprintf("%d", *rec.ExitCode)
	}
	fmt.Fprintf(out, "%s | %3s | %s | %s\n",
		rec.Timestamp.Local().Format(domain.TimestampFormat),
		exit,
		rec.WorkingDir,
		rec.Command)
}

func historyStore(container *app.Container) (ports.HistoryRepository, error) {
	if container.HistoryStore == nil {
		return nil, errors.New(ErrHistoryStoreUnavailable)
	}
	return container.HistoryStore, nil
}
