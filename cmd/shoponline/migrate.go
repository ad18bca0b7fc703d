package main

import (
	"context"

	"shoponline/internal/infra/persistence/migration"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back or inspect the embedded schema migrations.`,
	}

	cmd.AddCommand(
		newMigrateUpCommand(),
		newMigrateDownCommand(),
		newMigrateStatusCommand(),
	)

	return cmd
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator) error {
				return m.Up(ctx)
			})
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("steps must be at least 1")
			}

			return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator) error {
				return m.Down(ctx, steps)
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	return cmd
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migration.Migrator) error {
				return m.Status(ctx)
			})
		},
	}
}

func withMigrator(ctx context.Context, run func(context.Context, *migration.Migrator) error) error {
	var migrator *migration.Migrator

	return runOnce(ctx, fx.Options(
		injectInfra(),
		injectMigration(),
		fx.Populate(&migrator),
	), func(ctx context.Context) error {
		return run(ctx, migrator)
	})
}

// runOnce starts a short-lived fx app, runs fn against it, and stops it again.
func runOnce(ctx context.Context, opts fx.Option, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app := fx.New(opts, fx.NopLogger)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "failed to build application")
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return errors.Wrap(err, "failed to start application")
	}

	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return errors.Wrap(err, "failed to stop application")
	}

	return runErr
}
