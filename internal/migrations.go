package internal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path"

	"github.com/pressly/goose/v3"

	"github.com/dukerupert/route66/migrations"
)

// RunMigrations applies every pending migration embedded in the binary
// and logs each one applied.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.MigrationsFS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("applied migration",
			"version", res.Source.Version,
			"file", path.Base(res.Source.Path),
			"duration", res.Duration,
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("schema is current", "version", version, "applied", len(results))
	return nil
}
