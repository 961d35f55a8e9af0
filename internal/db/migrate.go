package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/course-registration/internal/db/migrations"
	"github.com/pressly/goose/v3"
)

// Migrate накатывает встроенные миграции до последней версии.
func Migrate(ctx context.Context, database *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, ".")
}

// MigrationVersion: текущая версия схемы.
func MigrationVersion(ctx context.Context, database *sql.DB) (int64, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
