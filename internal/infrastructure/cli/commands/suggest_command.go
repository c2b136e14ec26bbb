package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
	"github.com/doeshing/shai-sense/internal/intel/analyzer"
)

// NewSuggestCommand creates the suggest command
func NewSuggestCommand(container *app.Container) *cobra.Command {
	var (
		dir     string
		last    string
		errText string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank next-command suggestions from history",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := container.NewSession()
			if err != nil {
				return err
			}
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
			}

			suggestions, err := sess.Suggest(cmd.Context(), analyzer.Context{
				CurrentDir:  dir,
				LastCommand: last,
				RecentError: errText,
			})
			if err != nil {
				return err
			}
			suggestions = container.Vet(suggestions)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(suggestions)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(out, MsgNoSuggestions)
				return nil
			}
			renderSuggestions(out, "Suggestions", suggestions)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Working directory (default: current)")
	cmd.Flags().StringVar(&last, "last", "", "Last command (default: newest history entry)")
	cmd.Flags().StringVar(&errText, "error", "", "Error text from the last command")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print suggestions as JSON")
	return cmd
}
