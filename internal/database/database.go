// Package database opens the GORM connection and applies the schema.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/username/fleet-compliance-api/internal/alert"
	"github.com/username/fleet-compliance-api/internal/client"
	"github.com/username/fleet-compliance-api/internal/document"
	"github.com/username/fleet-compliance-api/internal/personnel"
	"github.com/username/fleet-compliance-api/internal/vehicle"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// Open connects to Postgres through GORM. SQL statements go to log at warn level when slow.
func Open(dsn string, opts Options, log *zap.Logger) (*gorm.DB, error) {
	if opts.SlowQuery == 0 {
		opts.SlowQuery = 500 * time.Millisecond
	}

	gormLog := logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             opts.SlowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate applies the SQL migrations under sourceURL (e.g. file://migrations).
// It returns false when the schema was already up to date.
func Migrate(sourceURL, databaseURL string) (bool, error) {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return false, fmt.Errorf("gagal membuat instance migrasi: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("gagal menjalankan migration: %w", err)
	}
	return true, nil
}

// Models is every table the API owns, in dependency order.
func Models() []any {
	return []any{
		&vehicle.Vehicle{},
		&personnel.Personnel{},
		&document.Document{},
		&client.Client{},
		&client.Requirement{},
		&alert.Alert{},
	}
}

// AutoMigrate syncs the schema from the GORM models, for dev databases without migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
