package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var (
	gooseSetup sync.Once
	gooseErr   error
)

// RunMigrations applies pending migrations. A nil database is a no-op so
// memory-only deployments can call it unconditionally.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, "up")
}

// Migrate runs one goose command (up, down, status or version) against the
// embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, command string) error {
	command = strings.ToLower(strings.TrimSpace(command))
	switch command {
	case "", "up", "down", "status", "version":
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if database == nil {
		return nil
	}

	gooseSetup.Do(func() {
		goose.SetBaseFS(migrationFiles)
		gooseErr = goose.SetDialect("postgres")
	})
	if gooseErr != nil {
		return gooseErr
	}

	switch command {
	case "down":
		return goose.DownContext(ctx, database, migrationsDir)
	case "status":
		return goose.StatusContext(ctx, database, migrationsDir)
	case "version":
		return goose.VersionContext(ctx, database, migrationsDir)
	default:
		return goose.UpContext(ctx, database, migrationsDir)
	}
}
