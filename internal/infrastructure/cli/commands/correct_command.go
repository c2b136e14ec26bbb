package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
)

// NewCorrectCommand creates the correct command
func NewCorrectCommand(container *app.Container) *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "correct <command line>",
		Short: "Fix a mistyped command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := container.NewSession()
			if err != nil {
				return err
			}
			raw := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if auto {
				fmt.Fprintln(out, sess.AutoCorrect(raw))
				return nil
			}
			c, ok := sess.Correct(raw)
			if !ok {
				fmt.Fprintln(out, MsgNoCorrection)
				return nil
			}
			renderCorrection(out, c)
			return nil
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Print the line with high-confidence corrections applied")
	return cmd
}
