package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"printsaarthi/internal/config"
	"printsaarthi/internal/model"
	"printsaarthi/internal/server"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.AutoMigrate(&model.UserRecord{}, &model.OrderRecord{}); err != nil {
		logger.WithError(err).Fatal("migrate database")
	}

	srv := server.NewServer(cfg, db, logger)
	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.WithField("addr", serverAddr).Info("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Fatal("HTTP server shutdown error")
	}
}

func newLogger(cfg config.Log) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
