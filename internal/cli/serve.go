package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailwarm/internal/app"
)

func newServeCommand(build buildFunc) *cobra.Command {
	var withScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP trigger endpoint",
		Long: `Serve GET /api/warmup for an external scheduler such as a platform cron.
With --schedule the built-in timer triggers the gate as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := build(ctx)
			if err != nil {
				return err
			}

			var hooks []func(context.Context) error
			if withScheduler {
				s, err := a.Scheduler()
				if err != nil {
					return closeWith(ctx, a, err)
				}
				if err := s.Start(ctx); err != nil {
					return closeWith(ctx, a, err)
				}
				hooks = append(hooks, s.Shutdown())
			}

			// The server closes the app's resources during shutdown.
			return a.Server(hooks...).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&withScheduler, "schedule", false, "also run the built-in timer trigger")
	return cmd
}

func closeWith(ctx context.Context, a *app.App, err error) error {
	_ = a.Close(context.WithoutCancel(ctx))
	return err
}
