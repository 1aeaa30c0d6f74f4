package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
)

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables and indexes",
		Long: `Create the library tables and indexes if they do not exist yet.
Existing tables are left untouched; this is not a migration tool.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeStore, err := a.openStore(cmd.Context(), config.Instrumentation{})
			if err != nil {
				return err
			}
			defer closeStore()

			if err := s.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")

			return err
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the database is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeStore, err := a.openStore(cmd.Context(), config.Instrumentation{})
			if err != nil {
				return err
			}
			defer closeStore()

			if err := s.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database %s is not reachable: %w", a.cfg.Driver, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "database %s is reachable\n", a.cfg.Driver)

			return err
		},
	}
}
