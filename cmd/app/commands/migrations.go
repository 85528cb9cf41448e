package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/evently/internal/database"
)

// RunMigrations executes database migrations based on the configured driver.
// PostgreSQL drivers (postgres, pgx) use migrations/postgresql, mysql uses migrations/mysql.
// Returns nil if there are no migrations to apply.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	logger.Info("running database migrations",
		slog.String("driver", dbDriver),
	)

	migrationsPath := "file://migrations/postgresql"
	if !database.IsPostgres(dbDriver) {
		migrationsPath = "file://migrations/" + dbDriver
	}

	m, err := migrate.New(migrationsPath, migrationURL(dbDriver, dbConnectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrationURL turns a go-sql-driver/mysql DSN into the URL form golang-migrate expects.
func migrationURL(dbDriver, dbConnectionString string) string {
	if dbDriver == "mysql" && !strings.HasPrefix(dbConnectionString, "mysql://") {
		return "mysql://" + dbConnectionString
	}
	return dbConnectionString
}
