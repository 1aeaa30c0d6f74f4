package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/engine"
	"github.com/AntonStoeckl/library-lending-go/engine/shell"
	"github.com/AntonStoeckl/library-lending-go/gateway"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var createSchema bool
	var eventualReads bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the library lending HTTP API until SIGINT or SIGTERM.

Examples:
  librarian serve                      # serve with the configured database
  librarian serve --create-schema      # create missing tables first (development)
  librarian serve --eventual-reads     # let queries use the read replica`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx, createSchema, eventualReads)
		},
	}

	cmd.Flags().BoolVar(&createSchema, "create-schema", false, "Create missing tables and indexes before serving")
	cmd.Flags().BoolVar(&eventualReads, "eventual-reads", false, "Serve queries from LIBRARY_DB_REPLICA_DSN when set")

	return cmd
}

func (a *app) serve(ctx context.Context, createSchema, eventualReads bool) error {
	inst := config.Instrumentation{}
	libraryOptions := []engine.Option{
		engine.WithContextualLogger(a.logger),
		engine.WithRetryOptions(
			shell.WithMaxAttempts(a.cfg.RetryMaxAttempts),
			shell.WithBaseDelay(a.cfg.RetryBaseDelay),
		),
	}

	if eventualReads {
		libraryOptions = append(libraryOptions, engine.WithEventualConsistencyReads())
	}

	if a.cfg.OTelEndpoint != "" {
		providers, err := config.NewObservabilityProviders(ctx, a.cfg)
		if err != nil {
			return err
		}

		defer func() {
			if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
				a.logger.Warn("shutting down observability providers failed", "error", err.Error())
			}
		}()

		inst.MetricsCollector = providers.MetricsCollector()
		inst.TracingCollector = providers.TracingCollector()
		libraryOptions = append(libraryOptions,
			engine.WithMetrics(inst.MetricsCollector),
			engine.WithTracing(inst.TracingCollector),
		)
	}

	s, closeStore, err := a.openStore(ctx, inst)
	if err != nil {
		return err
	}
	defer closeStore()

	if createSchema {
		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	library, err := engine.NewLibrary(s, libraryOptions...)
	if err != nil {
		return err
	}

	httpApp := gateway.New(library,
		gateway.WithLogger(a.logger),
		gateway.WithOperationTimeout(a.cfg.OperationTimeout),
	)

	listenErr := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.HTTPAddr, "driver", string(a.cfg.Driver))
		listenErr <- httpApp.Listen(a.cfg.HTTPAddr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := httpApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return nil
}
