package gormdb

import (
	"context"
	"database/sql"
	"log/slog"

	"docvault/config"
	"docvault/internal/infra/persistence/migrations"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

func gooseDialect(driver string) (goose.Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return goose.DialectPostgres, nil
	case config.DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", errors.Errorf("unsupported database driver: %s", driver)
	}
}

// NewMigrationProvider builds a goose provider over the embedded migrations of the driver.
func NewMigrationProvider(sqlDB *sql.DB, driver string) (*goose.Provider, error) {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return nil, err
	}

	fsys, err := migrations.ForDriver(driver)
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration provider")
	}

	return provider, nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, sqlDB *sql.DB, driver string, logger *slog.Logger) error {
	provider, err := NewMigrationProvider(sqlDB, driver)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	for _, result := range results {
		logger.Info("Migration applied",
			slog.Int64("version", result.Source.Version),
			slog.String("file", result.Source.Path),
			slog.Duration("duration", result.Duration),
		)
	}

	return nil
}
