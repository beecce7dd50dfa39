// Package main is the entry point for the KitchenLedger API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitchenledger/internal/config"
	"kitchenledger/internal/domain/auth"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/notification"
	"kitchenledger/internal/domain/order"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/domain/reports"
	"kitchenledger/internal/infrastructure/cache"
	v1 "kitchenledger/internal/infrastructure/http/v1"
	"kitchenledger/internal/infrastructure/http/v1/handlers"
	"kitchenledger/internal/infrastructure/metrics"
	"kitchenledger/internal/infrastructure/storage/postgres"
	"kitchenledger/internal/infrastructure/storage/postgres/auth_repo"
	"kitchenledger/internal/infrastructure/storage/postgres/catalog_repo"
	"kitchenledger/internal/infrastructure/storage/postgres/document_repo"
	"kitchenledger/pkg/logger"
)

// Expired keys are removed by cmd/worker.
const idempotencyTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	log.Infow("starting kitchenledger server", "env", cfg.Env)

	// --- Database ---
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	healthChecks := map[string]handlers.Pinger{"postgres": pool}

	// --- Repositories ---
	inputRepo := catalog_repo.NewInputRepo(txm)
	inventoryRepo := catalog_repo.NewInventoryRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)
	pricingRepo := catalog_repo.NewPricingRepo(txm)
	customerRepo := catalog_repo.NewCustomerRepo(txm)
	fixedCostsRepo := catalog_repo.NewFixedCostsRepo(txm)
	orderRepo := document_repo.NewOrderRepo(txm)
	notificationRepo := document_repo.NewNotificationRepo(txm)
	userRepo := auth_repo.NewUserRepo(txm)

	auditService, err := postgres.NewAuditService(txm)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Fixed costs cache ---
	// Redis is shared between instances; the in-process cache is kept
	// coherent through LISTEN/NOTIFY instead.
	var fixedCostsCache fixedcosts.Cache
	if cfg.RedisURL != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		fixedCostsCache = cache.NewRedis(rdb, cfg.FixedCostsTTL)
		healthChecks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info("fixed costs cached in redis")
	} else {
		mem := cache.NewMemory(cfg.FixedCostsTTL)
		invalidator := cache.NewInvalidator(pool.Pool, catalog_repo.FixedCostsChannel, mem)
		invalidator.Start(ctx)
		defer invalidator.Stop()
		fixedCostsCache = mem
	}

	// --- Metrics ---
	m := metrics.New(cfg.MetricsNamespace)

	// --- Services ---
	inputService := input.NewService(inputRepo)
	inventoryService := inventory.NewService(inventoryRepo, inputRepo, txm)
	productService := product.NewService(productRepo, inventoryRepo)
	customerService := customer.NewService(customerRepo)

	fixedCostsService := fixedcosts.NewService(fixedCostsRepo, fixedCostsCache)
	pricingService := pricing.NewService(
		pricingRepo,
		productRepo,
		pricing.NewCalculator(inventoryRepo),
		fixedCostsService,
		txm,
	)
	fixedCostsService.SetRecalculator(pricingService)

	hub := notification.NewHub(cfg.NotifyBufferSize)
	hub.OnDrop = m.NotificationsDropped.Inc
	notificationService := notification.NewService(notificationRepo, hub)

	orderEngine := order.NewEngine(orderRepo, order.Deps{
		Customers:   customerRepo,
		Pricings:    pricingRepo,
		Products:    productRepo,
		Stock:       inventoryRepo,
		Messages:    notificationService,
		Broadcaster: notificationService,
		Audit:       auditService,
		Metrics:     m,
		TxManager:   txm,
	})

	reportService := reports.NewService(orderRepo, fixedCostsService, txm)

	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.JWTTTL
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(userRepo, txm, jwtService, auth.DefaultServiceConfig())

	idempotencyStore := postgres.NewIdempotencyStore(txm, idempotencyTTL)

	m.RegisterGaugeFunc(cfg.MetricsNamespace+"_db_pool_acquired_conns", "Connections currently checked out of the pool", func() float64 {
		return float64(pool.Stats().AcquiredConns)
	})
	m.RegisterGaugeFunc(cfg.MetricsNamespace+"_db_pool_idle_conns", "Idle connections in the pool", func() float64 {
		return float64(pool.Stats().IdleConns)
	})
	m.RegisterGaugeFunc(cfg.MetricsNamespace+"_notification_clients", "Connected notification subscribers", func() float64 {
		return float64(hub.Count())
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		JWTValidator:  jwtService,
		Metrics:       m,
		CORSOrigins:   cfg.CORSOrigins,
		Development:   cfg.Development(),
		HealthChecks:  healthChecks,
		Idempotency:   idempotencyStore,
		Auth:          authService,
		Inputs:        inputService,
		Inventory:     inventoryService,
		Products:      productService,
		Pricing:       pricingService,
		FixedCosts:    fixedCostsService,
		Customers:     customerService,
		Orders:        orderEngine,
		Reports:       reportService,
		Notifications: notificationService,
	})

	// --- HTTP Server ---
	// WriteTimeout stays zero: the notification stream is long-lived.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	pool.LogStats(shutdownCtx)
	log.Info("server stopped")
}
