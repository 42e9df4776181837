package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/config"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// Database is the PostgreSQL connection shared by every record store
type Database struct {
	DB    *gorm.DB
	sqlDB *sql.DB
}

// NewDatabase opens the connection pool and waits for the first ping.
// Statements are logged through zap at the configured level.
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Database, error) {
	gormLogger := logger.NewGormLogger(
		zapLogger,
		logger.MapGormLogLevel(cfg.LogLevel),
		logger.WithSlowThreshold(cfg.SlowThreshold),
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), newGormConfig(gormLogger))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	database, err := wrap(db)
	if err != nil {
		return nil, err
	}

	database.sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	database.sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	database.sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	database.sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return database, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &Database{DB: db, sqlDB: sqlDB}, nil
}

// newGormConfig returns the settings shared by every connection. Unique
// violations surface as gorm.ErrDuplicatedKey so repositories can map them
// to Conflict, and timestamps are written in UTC.
func newGormConfig(gormLogger *logger.GormLogger) *gorm.Config {
	return &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// SQL returns the pool, for connection metrics
func (d *Database) SQL() *sql.DB {
	return d.sqlDB
}

// Ping is the readiness check of the database
func (d *Database) Ping(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

// Close closes the pool
func (d *Database) Close() error {
	return d.sqlDB.Close()
}
