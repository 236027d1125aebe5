package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailwarm/internal/app"
)

func newStatsCommand(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print today's counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), build, func(a *app.App) error {
				stats, err := a.Gate.Stats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}
