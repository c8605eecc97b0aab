package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/logging"
	"shopfront/internal/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger.Named("db"), db.Options{
		MaxConns: cfg.DBMaxConns,
		Attempts: cfg.DBConnectAttempts,
	})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	logger.Info("device storage migrations applied")
}
