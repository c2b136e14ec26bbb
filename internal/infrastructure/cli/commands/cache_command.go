package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached AI replies",
	}

	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show cache location and size",
			RunE: func(cmd *cobra.Command, args []string) error {
				if container.ReplyCache == nil {
					return errors.New(ErrCacheDisabled)
				}
				n, err := container.ReplyCache.Len()
				if err != nil {
					return fmt.Errorf("failed to read cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d entries)\n", container.ReplyCache.Dir(), n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached replies",
			RunE: func(cmd *cobra.Command, args []string) error {
				if container.ReplyCache == nil {
					return errors.New(ErrCacheDisabled)
				}
				if err := container.ReplyCache.Clear(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
				return nil
			},
		},
	)

	return cacheCmd
}
