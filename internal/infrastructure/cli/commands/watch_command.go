package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/infrastructure/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(container *app.Container) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Suggest commands for new project files and idle terminals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", dir, err)
			}

			sess, err := container.NewSession()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			sess.Prime(collectState(ctx, container, abs))

			w, err := watch.New(abs, container.Logger)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", abs)
			return w.Run(ctx, watch.Handler{
				FileCreated: func(path string) {
					outcome := sess.ProcessFileCreated(path)
					outcome.Suggestions = container.Vet(outcome.Suggestions)
					renderOutcome(out, outcome)
				},
				Tick: func(now time.Time) {
					outcome := sess.ProcessIdle(now)
					outcome.Suggestions = container.Vet(outcome.Suggestions)
					renderOutcome(out, outcome)
				},
			}, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", DefaultIdleCheckInterval*time.Second, "How often to check for an idle terminal")
	return cmd
}
