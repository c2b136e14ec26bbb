package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/intel/analyzer"
	"github.com/doeshing/shai-sense/internal/intel/trigger"
)

// ExitError carries the exit status of a command started by run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRunCommand creates the run command
func NewRunCommand(container *app.Container) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "run -- <command>",
		Short: "Run a command and suggest what to do next",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndSuggest(cmd.Context(), cmd.OutOrStdout(), container, strings.Join(args, " "), !noWait)
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Do not wait for an AI recommendation after a failure")
	return cmd
}

// runAndSuggest executes command, journals it and reports trigger and
// history suggestions for what comes next.
func runAndSuggest(ctx context.Context, out io.Writer, container *app.Container, command string, wait bool) error {
	if container.Guard != nil {
		risk := container.Guard.Evaluate(command)
		if risk.Blocked {
			renderRisk(out, risk)
			return errors.New(ErrBlockedByGuardrail)
		}
		if risk.Level.Severity() >= domain.RiskHigh.Severity() {
			renderRisk(out, risk)
		}
	}

	sess, err := container.NewSession()
	if err != nil {
		return err
	}
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	sess.Prime(collectState(ctx, container, dir))

	entry, _ := sess.RecordStart(command, dir, time.Now())
	res, err := container.Executor.Execute(ctx, command)
	if err != nil && !res.Ran {
		return fmt.Errorf("run %q: %w", command, err)
	}

	var errText string
	if res.ExitCode != 0 {
		errText = tail(res.Stderr, maxErrorContextLen)
	}
	completed, err := sess.RecordCompletion(entry.ID, res.ExitCode, time.Duration(res.DurationMS)*time.Millisecond, errText)
	if err == nil {
		if err := container.HistoryStore.Save(completed); err != nil {
			container.Logger.Warn("journal write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	after := collectState(ctx, container, dir)
	after.LastCommand = command
	after.ExitCode = domain.IntPtr(res.ExitCode)
	after.DurationMS = domain.Int64Ptr(res.DurationMS)
	after.ErrorOutput = res.Stderr

	outcome := sess.ProcessStateChange(ctx, after)
	outcome.Suggestions = container.Vet(outcome.Suggestions)
	renderOutcome(out, outcome)
	if outcome.Pending != nil {
		if wait {
			waitForAI(ctx, out, container, outcome.Pending)
		} else {
			outcome.Pending.Cancel()
		}
	}

	next, err := sess.Suggest(ctx, analyzer.Context{CurrentDir: dir, LastCommand: command})
	if err != nil {
		return err
	}
	renderSuggestions(out, "Next", container.Vet(next))

	if res.ExitCode != 0 {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

func collectState(ctx context.Context, container *app.Container, dir string) domain.TerminalState {
	state, err := container.Collector.Collect(ctx, dir)
	if err != nil {
		container.Logger.Debug("state collection failed", map[string]interface{}{"error": err.Error()})
		state = domain.TerminalState{CurrentDir: dir}
	}
	state.Timestamp = time.Now()
	return state
}

func waitForAI(ctx context.Context, out io.Writer, container *app.Container, pending *trigger.Pending) {
	waitCtx, cancel := context.WithTimeout(ctx, domain.DefaultAIWait)
	defer cancel()

	fmt.Fprintln(out, dimStyle.Render("Asking AI provider..."))
	s, ok := pending.Wait(waitCtx)
	pending.Cancel()
	<-pending.Done()
	if !ok {
		return
	}
	renderSuggestions(out, "[ai]", container.Vet([]domain.Suggestion{s}))
}

// tail keeps the last n bytes of s without splitting a rune.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}
