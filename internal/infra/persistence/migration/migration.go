// Package migration applies the embedded goose SQL scripts to PostgreSQL.
package migration

import (
	"context"
	"embed"
	"log/slog"

	"shoponline/config"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed scripts/*.sql
var scripts embed.FS

const scriptsDir = "scripts"

// Migrator runs goose against the database behind a gorm handle.
type Migrator struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewMigrator configures goose for PostgreSQL with the configured version table.
func NewMigrator(db *gorm.DB, logger *slog.Logger, cfg *config.Config) (*Migrator, error) {
	goose.SetBaseFS(scripts)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, errors.Wrap(err, "failed to set goose dialect")
	}
	if cfg.Migration != nil && cfg.Migration.Table != "" {
		goose.SetTableName(cfg.Migration.Table)
	}

	return &Migrator{db: db, logger: logger.With("component", "migration")}, nil
}

// Up applies every pending script.
func (m *Migrator) Up(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}

	from, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errors.Wrap(err, "failed to get current version")
	}

	if err := goose.UpContext(ctx, sqlDB, scriptsDir); err != nil {
		m.logger.ErrorContext(ctx, "Migration failed", slog.Any("error", err))

		return errors.Wrap(err, "failed to run migrations")
	}

	to, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errors.Wrap(err, "failed to get final version")
	}

	m.logger.InfoContext(ctx, "Migrations applied", slog.Int64("fromVersion", from), slog.Int64("toVersion", to))

	return nil
}

// Down rolls back the given number of scripts.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}

	for range steps {
		if err := goose.DownContext(ctx, sqlDB, scriptsDir); err != nil {
			return errors.Wrap(err, "failed to run down migration")
		}
	}

	m.logger.InfoContext(ctx, "Migrations rolled back", slog.Int("steps", steps))

	return nil
}

// Status prints the applied state of every script through goose's logger.
func (m *Migrator) Status(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}

	return errors.Wrap(goose.StatusContext(ctx, sqlDB, scriptsDir), "failed to get migration status")
}
