package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iho/caja/internal/infrastructure/config"
	"github.com/iho/caja/internal/infrastructure/postgres"
)

type migrateOptions struct {
	databaseURL string
	path        string
}

func migrateCmd() *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Long:  `Runs migrations directly against PostgreSQL. Defaults come from DATABASE_URL and MIGRATIONS_PATH.`,
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&opts.path, "path", "", "Migrations directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.resolve(); err != nil {
					return err
				}
				if err := postgres.RunMigrations(opts.databaseURL, opts.path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := opts.resolve(); err != nil {
					return err
				}
				if err := postgres.RunMigrationsDown(opts.databaseURL, opts.path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migration rolled back")
				return nil
			},
		},
	)

	return cmd
}

// resolve fills unset flags from the environment configuration.
func (o *migrateOptions) resolve() error {
	if o.databaseURL != "" && o.path != "" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.databaseURL == "" {
		o.databaseURL = cfg.DatabaseURL
	}
	if o.path == "" {
		o.path = cfg.MigrationsPath
	}
	return nil
}
