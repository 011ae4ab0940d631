package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fixpoint-backend/config"
	"fixpoint-backend/internal/model"
)

// Init opens the database and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Msg("database initialization complete")
	return db, nil
}

// Open connects to PostgreSQL when the DSN looks like one and to an embedded
// SQLite file otherwise.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if IsPostgresDSN(cfg.DSN) {
		dialector = postgres.Open(cfg.DSN)
	} else {
		dialector = sqlite.Open(SQLiteDSN(cfg.DSN, cfg.BusyTimeoutMillis))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("database connected")
	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(
		&model.DeviceType{},
		&model.Brand{},
		&model.Repair{},
		&model.DeviceModel{},
		&model.PriceListEntry{},
		&model.Fixpoint{},
		&model.Quote{},
		&model.QuoteRepairLine{},
		&model.User{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// IsPostgresDSN accepts both URL and key=value DSN forms.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.HasPrefix(lower, "host=")
}

// SQLiteDSN appends the connection parameters every SQLite connection needs:
// a bounded wait on write contention, WAL journaling and enforced foreign
// keys. Parameters already present in dsn win.
func SQLiteDSN(dsn string, busyTimeoutMillis int) string {
	params := []struct{ key, value string }{
		{"_busy_timeout", fmt.Sprintf("%d", busyTimeoutMillis)},
		{"_journal_mode", "WAL"},
		{"_foreign_keys", "on"},
	}

	out := dsn
	for _, p := range params {
		if strings.Contains(out, p.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(out, "?") {
			sep = "&"
		}
		out += sep + p.key + "=" + p.value
	}
	return out
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
