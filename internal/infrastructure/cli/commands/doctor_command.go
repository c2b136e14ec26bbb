package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-sense/internal/app"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return errors.New(ErrDoctorServiceUnavailable)
			}
			report := container.DoctorService.Run(cmd.Context())
			renderHealth(cmd.OutOrStdout(), report)
			if report.Failed() {
				return errors.New("diagnostics completed with errors")
			}
			return nil
		},
	}
}
