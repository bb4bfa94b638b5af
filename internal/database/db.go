// Package database owns the process-wide engine and hands out scoped sessions
// bound to it.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AdamWudarczyk/qa-portal/internal/config"
)

const applicationName = "qa-portal"

// Connect creates the engine for the configured PostgreSQL database. No
// connection is made until a session first needs one.
func Connect(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	connCfg, err := pgx.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	return Open(postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), cfg, log)
}

// Open creates the engine on top of an arbitrary dialector and applies the
// pool settings from cfg.
func Open(dialector gorm.Dialector, cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	engine, err := gorm.Open(dialector, &gorm.Config{
		Logger:               NewLogger(log, cfg.DBEcho),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := engine.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return engine, nil
}

// Close shuts the engine's connection pool down.
func Close(engine *gorm.DB) error {
	sqlDB, err := engine.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DSN renders cfg as a libpq keyword/value connection string.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s application_name=%s TimeZone=UTC",
		quote(cfg.DBHost), quote(cfg.DBUser), quote(cfg.DBPassword), quote(cfg.DBName),
		cfg.DBPort, quote(cfg.DBSSLMode), applicationName,
	)
}

func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
