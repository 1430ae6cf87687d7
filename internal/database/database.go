package database

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.DatabaseConfig) error {
	dsn := cfg.GetDSN()

	gormLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return classifyConnectError(cfg, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	connMaxLifetime, err := cfg.GetConnMaxLifetime()
	if err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return classifyConnectError(cfg, err)
	}

	DB = db
	log.Println("Database connected successfully")
	return nil
}

// classifyConnectError turns low-level connect failures into a connectivity
// error that tells the operator whether DNS, the network, or credentials are
// the problem.
func classifyConnectError(cfg *config.DatabaseConfig, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return apperrors.Connectivity(
			"database DNS lookup failed for %q; check the database.host setting: %w", cfg.Host, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return apperrors.Connectivity(
			"database refused the connection on %s:%d; verify the server is running and the port is correct: %w",
			cfg.Host, cfg.Port, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "password authentication failed") || strings.Contains(msg, "SQLSTATE 28P01") {
		return apperrors.Connectivity(
			"database rejected the credentials for user %q; check database.user/database.password: %w",
			cfg.User, err)
	}
	return apperrors.Connectivity("failed to connect database: %w", err)
}

func Close() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
