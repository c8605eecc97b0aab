package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shopfront/internal/commerce"
	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/domain"
	"shopfront/internal/httpserver"
	"shopfront/internal/identity"
	"shopfront/internal/kvstore"
	"shopfront/internal/logging"
	"shopfront/internal/payment"
	"shopfront/internal/repository/draftorder"
	tokenrepo "shopfront/internal/repository/token"
	addresssvc "shopfront/internal/service/address"
	cartsvc "shopfront/internal/service/cart"
	catalogsvc "shopfront/internal/service/catalog"
	checkoutsvc "shopfront/internal/service/checkout"
	customersvc "shopfront/internal/service/customer"
	devicesvc "shopfront/internal/service/device"
	favoritessvc "shopfront/internal/service/favorites"
	"shopfront/internal/session"
	"shopfront/internal/state"
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

	var (
		pool   *pgxpool.Pool
		ready  httpserver.Pinger
		kv     kvstore.Store
		tokens tokenrepo.Repository
	)
	switch cfg.KVBackend {
	case config.BackendPostgres:
		pool, err = db.Connect(ctx, cfg.DBConnString, logger.Named("db"), db.Options{
			MaxConns: cfg.DBMaxConns,
			Attempts: cfg.DBConnectAttempts,
		})
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()
		ready = pool
		kv = kvstore.NewPostgres(pool)
		tokens = tokenrepo.NewPostgres(pool)
	default:
		logger.Warn("using in-memory device storage, sessions do not survive a restart")
		kv = kvstore.NewMemory()
		tokens = tokenrepo.NewMemory()
	}

	api, err := commerce.New(commerce.Config{
		BaseURL:     cfg.CommerceBaseURL,
		AccessToken: cfg.CommerceAccessToken,
		Timeout:     cfg.CommerceTimeout,
		MaxRetries:  cfg.CommerceMaxRetries,
		RetryDelay:  cfg.CommerceRetryDelay,
		PageLimit:   cfg.CommercePageLimit,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("init commerce client", zap.Error(err))
	}
	gateway, err := payment.New(payment.Config{
		SecretKey:  cfg.StripeSecretKey,
		SuccessURL: cfg.PaymentSuccessURL,
		CancelURL:  cfg.PaymentCancelURL,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("init payment gateway", zap.Error(err))
	}

	editor := draftorder.NewEditor(draftorder.NewCommerce(api, logger.Named("draftorder")))
	cartService := cartsvc.New(editor, api,
		state.NewRegistry[domain.Cart](state.WithIdleLimit(cfg.SessionCacheSize, 2*cfg.SessionCacheTTL)),
		logger.Named("cart"))
	favoritesService := favoritessvc.New(editor, api, logger.Named("favorites"))
	addressService := addresssvc.New(api, logger.Named("address"))
	sessions := session.NewManager(kv, logger.Named("session"),
		session.WithCacheSize(cfg.SessionCacheSize),
		session.WithCacheTTL(cfg.SessionCacheTTL))

	deps := httpserver.Deps{
		Devices:   devicesvc.New(tokens, logger.Named("device")),
		Sessions:  sessions,
		Catalog:   catalogsvc.New(editor.Repository(), api, favoritesService, logger.Named("catalog")),
		Cart:      cartService,
		Favorites: favoritesService,
		Addresses: addressService,
		Checkout:  checkoutsvc.New(cartService, addressService, api, gateway, logger.Named("checkout")),
	}
	if cfg.FirebaseProjectID != "" {
		verifier, err := identity.NewFirebase(ctx, cfg.FirebaseProjectID)
		if err != nil {
			logger.Fatal("init identity verifier", zap.Error(err))
		}
		deps.Customers = customersvc.New(verifier, api, logger.Named("customer"))
	} else {
		logger.Warn("firebase project not configured, login is disabled")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), ready, deps, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
