package cli

import (
	"context"
	"log/slog"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/spf13/cobra"
)

// AppFactory builds the App once flags are parsed.
type AppFactory func(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error)

const skipAppAnnotation = "budget/skip-app"

// NewRootCommand assembles the command tree. Subcommands reach the App
// through the returned closure after PersistentPreRunE has built it.
func NewRootCommand(factory AppFactory) *cobra.Command {
	var flags config.Flags
	var app *App
	get := func() *App { return app }

	root := &cobra.Command{
		Use:           "budget",
		Short:         "Offline-first personal budget client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipAppAnnotation] != "" {
				return nil
			}

			cfg, err := flags.Resolve(cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			log := logging.NewTextLogger(cmd.ErrOrStderr(), level)

			app, err = factory(cmd.Context(), cfg, log)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	flags.Register(root.PersistentFlags())

	root.AddCommand(
		newAddCommand(get),
		newQueueCommand(get),
		newSyncCommand(get),
		newWatchCommand(get),
		newDashboardCommand(get),
		newProfileCommand(get),
		newAuthCommand(get),
		newVersionCommand(),
	)

	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(NewApp).ExecuteContext(ctx)
}
