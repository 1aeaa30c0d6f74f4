package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
)

const version = "1.0.0"

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	envFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "librarian",
		Short: "Library lending service",
		Long: `librarian serves the library lending API and manages its database.

Configuration is read from the environment, optionally seeded from a .env file:
  LIBRARY_DB_DRIVER   pgx (default), sqldb, sqlx or sqlite
  LIBRARY_DB_DSN      connection string; DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME are used when unset
  LIBRARY_HTTP_ADDR   listen address; HOST and PORT are used when unset`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd.ErrOrStderr)
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "File to seed the environment from")

	root.AddCommand(
		newServeCommand(a),
		newSchemaCommand(a),
		newCheckCommand(a),
		newLoadCommand(a),
	)

	return root
}

func (a *app) loadConfig(stderr func() io.Writer) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg, stderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

// openStore opens the configured store with the process logger attached.
func (a *app) openStore(ctx context.Context, inst config.Instrumentation) (config.Store, func(), error) {
	if inst.Logger == nil {
		inst.Logger = a.logger
	}

	return config.OpenStore(ctx, a.cfg, inst)
}
