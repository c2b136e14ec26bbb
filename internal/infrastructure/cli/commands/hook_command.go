package commands

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/domain"
)

// hookRecord is one finished command reported by the shell hook.
type hookRecord struct {
	Session    string
	Command    string
	Dir        string
	ExitCode   int
	DurationMS int64
}

// NewHookCommand creates the hidden hook command used by the shell scripts.
func NewHookCommand(container *app.Container) *cobra.Command {
	hookCmd := &cobra.Command{
		Use:    "hook",
		Short:  "Entry points for the shell integration",
		Hidden: true,
	}

	var rec hookRecord
	recordCmd := &cobra.Command{
		Use:   "record -- <command>",
		Short: "Journal a finished command and print trigger suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec.Command = strings.Join(args, " ")
			if rec.Dir == "" {
				rec.Dir, _ = os.Getwd()
			}
			return recordHook(cmd.Context(), cmd.ErrOrStderr(), container, rec)
		},
	}
	recordCmd.Flags().StringVar(&rec.Session, "session", "", "Shell session identifier")
	recordCmd.Flags().StringVar(&rec.Dir, "dir", "", "Working directory (default: current)")
	recordCmd.Flags().IntVar(&rec.ExitCode, "exit", 0, "Exit code of the command")
	recordCmd.Flags().Int64Var(&rec.DurationMS, "duration-ms", 0, "Duration of the command in milliseconds")

	hookCmd.AddCommand(recordCmd)
	return hookCmd
}

// recordHook journals rec and reports what the trigger detector makes of it
// relative to the session's previous snapshot. It runs before every prompt,
// so the session has no AI fallback.
func recordHook(ctx context.Context, out io.Writer, container *app.Container, rec hookRecord) error {
	sess, err := container.NewOfflineSession()
	if err != nil {
		return err
	}
	if prev, ok, err := container.Snapshots.Load(rec.Session); err != nil {
		container.Logger.Debug("snapshot ignored", map[string]interface{}{"error": err.Error()})
	} else if ok {
		sess.Prime(prev)
	} else if removed, err := container.Snapshots.Prune(); err == nil && removed > 0 {
		// First command of a new shell: clear out snapshots of dead ones.
		container.Logger.Debug("pruned stale snapshots", map[string]interface{}{"removed": removed})
	}

	duration := time.Duration(rec.DurationMS) * time.Millisecond
	entry, ok := sess.RecordStart(rec.Command, rec.Dir, time.Now().Add(-duration))
	if !ok {
		return nil
	}
	if completed, err := sess.RecordCompletion(entry.ID, rec.ExitCode, duration, ""); err == nil {
		if err := container.HistoryStore.Save(completed); err != nil {
			container.Logger.Warn("journal write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	state := collectState(ctx, container, rec.Dir)
	state.LastCommand = entry.Command
	state.ExitCode = domain.IntPtr(rec.ExitCode)
	state.DurationMS = domain.Int64Ptr(rec.DurationMS)

	outcome := sess.ProcessStateChange(ctx, state)
	outcome.Suggestions = container.Vet(outcome.Suggestions)
	renderOutcome(out, outcome)

	return container.Snapshots.Save(rec.Session, state)
}
