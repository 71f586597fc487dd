package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the store backend described by cfg.
// It returns a *gorm.DB connection or an error if the connection fails.
func Connect(cfg Config) (*gorm.DB, error) {
	// Suppress GORM logging; the application logger reports store events.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case DriverSQLite, "":
		return connectSQLite(cfg, gormConfig)
	case DriverMySQL:
		return connectMySQL(cfg, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want sqlite or mysql)", cfg.Driver)
	}
}

func connectSQLite(cfg Config, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := cfg.Name
	memory := dsn == "" || dsn == ":memory:"
	if memory {
		// A named shared-cache database lets a reader cursor and point lookups
		// use separate connections while still seeing the same data.
		dsn = fmt.Sprintf("file:featstore-%s?mode=memory&cache=shared", uuid.NewString())
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if memory {
		// The in-memory database lives as long as one connection stays open.
		sqlDB.SetMaxIdleConns(4)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}
	return db, nil
}

func connectMySQL(cfg Config, gormConfig *gorm.Config) (*gorm.DB, error) {
	// Special characters in the password must be URL encoded in the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// timeout: connection setup, readTimeout/writeTimeout: I/O
	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Verify connection with the same timeout used for the DSN.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
