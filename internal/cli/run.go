package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailwarm/internal/app"
)

func newRunCommand(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Evaluate the gate once and print the result",
		Long: `Evaluate the gate once, the same as one GET /api/warmup, and print the
JSON result. The command fails when the result status is "error".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), build, func(a *app.App) error {
				res, runErr := a.Gate.Run(cmd.Context())
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				return runErr
			})
		},
	}
}
