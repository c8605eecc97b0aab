package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/kvstore"
	"shopfront/internal/logging"
	tokenrepo "shopfront/internal/repository/token"
	"shopfront/internal/seed"
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

	if err := seed.Apply(ctx, tokenrepo.NewPostgres(pool), kvstore.NewPostgres(pool), logger, seed.Demo); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.String("token", seed.Demo.Token))
}
