package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailwarm/internal/app"
	"github.com/dmitrymomot/mailwarm/internal/config"
)

// Version information set by the main package.
var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{Version: "dev", Commit: "unknown", BuildDate: "unknown"}

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// Options customizes the command tree, mostly for tests.
type Options struct {
	Out        io.Writer
	Err        io.Writer
	AppOptions []app.Option
}

type rootFlags struct {
	envFile string
	verbose bool
}

// NewRootCommand builds the mailwarm command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "mailwarm",
		Short: "Mail warmup rate gate",
		Long: `mailwarm exchanges low-volume messages between two mailboxes to build
sender reputation. Every trigger is checked against a daily cap and a
minimum interval kept in a shared key-value store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	build := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load(flags.envFile)
		if err != nil {
			return nil, err
		}
		if flags.verbose {
			cfg.Log.Level = slog.LevelDebug.String()
		}
		return app.New(ctx, cfg, append([]app.Option{app.WithLogOutput(opts.Err)}, opts.AppOptions...)...)
	}

	root.AddCommand(
		newServeCommand(build),
		newRunCommand(build),
		newScheduleCommand(build),
		newStatsCommand(build),
		newResetCommand(build),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with ctx, which should be cancelled on
// SIGINT and SIGTERM.
func Execute(ctx context.Context) error {
	return NewRootCommand(Options{}).ExecuteContext(ctx)
}

type buildFunc func(ctx context.Context) (*app.App, error)

// withApp builds the app, runs fn and releases the app's resources.
func withApp(ctx context.Context, build buildFunc, fn func(*app.App) error) (err error) {
	a, err := build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
