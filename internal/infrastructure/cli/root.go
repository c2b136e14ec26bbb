// Package cli exposes the suggestion engine as the shai-sense command.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRootCmd wires the cobra root command. The container is closed when the
// command finishes.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose: opts.Verbose,
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
	})
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(func() {
		if err := container.Close(); err != nil {
			container.Logger.Warn("close failed", map[string]interface{}{"error": err.Error()})
		}
	})

	root := &cobra.Command{
		Use:   "shai-sense",
		Short: "Command suggestions for your terminal",
		Long: "shai-sense corrects mistyped commands, learns from your history and " +
			"suggests what to run next when a command fails, is slow or changes your repository.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if opts.Stdout != nil {
		root.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		root.SetErr(opts.Stderr)
	}

	root.AddCommand(
		commands.NewCorrectCommand(container),
		commands.NewSuggestCommand(container),
		commands.NewRunCommand(container),
		commands.NewWatchCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewConfigCommand(container),
		commands.NewInstallCommand(container),
		commands.NewUninstallCommand(container),
		commands.NewHookCommand(container),
		commands.NewCacheCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root, nil
}
