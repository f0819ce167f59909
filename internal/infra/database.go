package infra

import (
	"context"
	"database/sql"
	"fmt"

	"facturas/internal/config"
	"facturas/internal/model"
	"facturas/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the store selected by cfg.StorageDriver and brings its
// schema up to date. PostgreSQL is migrated with the embedded goose files,
// SQLite with AutoMigrate.
func NewDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if err := MigratePostgres(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		return db, nil

	case config.StorageSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath+"?_foreign_keys=on"), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
			return nil, fmt.Errorf("AutoMigrate: %w", err)
		}
		return db, nil
	}
	return nil, fmt.Errorf("database: driver %q no soportado", cfg.StorageDriver)
}

// MigratePostgres runs all pending goose migrations against dsn.
func MigratePostgres(ctx context.Context, dsn string) error {
	return withGoose(ctx, dsn, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	})
}

// RollbackPostgres reverts the most recent migration.
func RollbackPostgres(ctx context.Context, dsn string) error {
	return withGoose(ctx, dsn, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	})
}

// MigrationStatus logs applied and pending migrations through goose.
func MigrationStatus(ctx context.Context, dsn string) error {
	return withGoose(ctx, dsn, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	})
}

func withGoose(ctx context.Context, dsn string, fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db)
}
