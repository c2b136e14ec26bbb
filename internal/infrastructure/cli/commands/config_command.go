package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/shai-sense/internal/app"
	configapp "github.com/doeshing/shai-sense/internal/application/config"
	configinfra "github.com/doeshing/shai-sense/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show full configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			RunE: func(cmd *cobra.Command, args []string) error {
				if container.ConfigLoader == nil {
					return errors.New(ErrConfigLoaderUnavailable)
				}
				fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := configapp.Validate(container.Config); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show differences from the default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				diff := cmp.Diff(configinfra.Defaults(), container.Config)
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), diff)
				return nil
			},
		},
	)

	return configCmd
}

func showConfiguration(out io.Writer, container *app.Container) error {
	data, err := yaml.Marshal(container.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}
