package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailwarm/internal/app"
)

func newScheduleCommand(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Trigger the gate on a timer without an HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), build, func(a *app.App) error {
				s, err := a.Scheduler()
				if err != nil {
					return err
				}
				return s.Run(cmd.Context())
			})
		},
	}
}
