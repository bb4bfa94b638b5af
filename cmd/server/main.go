package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/AdamWudarczyk/qa-portal/internal/config"
	"github.com/AdamWudarczyk/qa-portal/internal/database"
	"github.com/AdamWudarczyk/qa-portal/internal/logging"
	"github.com/AdamWudarczyk/qa-portal/internal/routes"
	"github.com/AdamWudarczyk/qa-portal/internal/server"
)

const (
	appTitle   = "QA Portal"
	appVersion = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.WithError(err).Error("server exited with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Settings come first: a bad environment must fail before any socket opens.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger.WithFields(log.Fields{
		"title":     appTitle,
		"version":   appVersion,
		"db_host":   cfg.DBHost,
		"db_port":   cfg.DBPort,
		"db_name":   cfg.DBName,
		"token_alg": cfg.SigningMethod().Alg(),
		"token_ttl": cfg.AccessTokenTTL(),
	}).Info("starting")

	engine, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(engine); err != nil {
			logger.WithError(err).Warn("close database")
		}
	}()

	sessions, err := database.NewSessionFactory(engine)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := routes.New(sessions, routes.Metadata{Title: appTitle, Version: appVersion}, logger)

	return server.New(cfg.Addr(), r, logger, cfg.ShutdownTimeout).Run(ctx)
}
