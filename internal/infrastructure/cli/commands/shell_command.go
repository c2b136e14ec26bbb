package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
)

// NewInstallCommand creates the install command
func NewInstallCommand(container *app.Container) *cobra.Command {
	var (
		shell string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the shell hook that reports finished commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := container.Shell.Install(shell, force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed for %s\nScript: %s\nRC File: %s\n", res.Shell, res.ScriptPath, res.RCFile)
			if res.RCUpdated {
				fmt.Fprintf(out, "Restart your shell or run: source %s\n", res.RCFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shell, "shell", "", "Shell to configure (zsh or bash, default: $SHELL)")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the rc file line even when present")
	return cmd
}

// NewUninstallCommand creates the uninstall command
func NewUninstallCommand(container *app.Container) *cobra.Command {
	var shell string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the shell hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := container.Shell.Uninstall(shell)
			if err != nil {
				return err
			}
			if res.RCUpdated {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed hook from %s\n", res.RCFile)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No hook found in %s\n", res.RCFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shell, "shell", "", "Shell to configure (zsh or bash, default: $SHELL)")
	return cmd
}
