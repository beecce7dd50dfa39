// Package main is the entry point for the KitchenLedger background worker.
// It expires idempotency keys and reports inventory that needs restocking.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kitchenledger/internal/config"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/infrastructure/storage/postgres"
	"kitchenledger/internal/infrastructure/storage/postgres/catalog_repo"
	"kitchenledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting kitchenledger worker")

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = 4
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	inventoryRepo := catalog_repo.NewInventoryRepo(txm)

	worker := NewWorker(
		postgres.NewIdempotencyStore(txm, 24*time.Hour),
		inventory.NewService(inventoryRepo, catalog_repo.NewInputRepo(txm), txm),
		log,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// IdempotencyCleaner removes expired idempotency keys.
type IdempotencyCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// StockReporter lists inventory at or below its limit.
type StockReporter interface {
	LowStock(ctx context.Context) ([]*inventory.LowStock, error)
}

// Worker runs periodic maintenance jobs.
type Worker struct {
	idempotency IdempotencyCleaner
	stock       StockReporter
	log         *logger.Logger

	CleanupInterval  time.Duration
	LowStockInterval time.Duration
}

func NewWorker(idempotency IdempotencyCleaner, stock StockReporter, log *logger.Logger) *Worker {
	return &Worker{
		idempotency:      idempotency,
		stock:            stock,
		log:              log.WithComponent("worker"),
		CleanupInterval:  time.Hour,
		LowStockInterval: 15 * time.Minute,
	}
}

// Run blocks until ctx is cancelled. The stock check also runs once at start.
func (w *Worker) Run(ctx context.Context) {
	cleanupTicker := time.NewTicker(w.CleanupInterval)
	defer cleanupTicker.Stop()

	stockTicker := time.NewTicker(w.LowStockInterval)
	defer stockTicker.Stop()

	w.checkLowStock(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanupTicker.C:
			w.cleanupIdempotency(ctx)
		case <-stockTicker.C:
			w.checkLowStock(ctx)
		}
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	n, err := w.idempotency.CleanupExpired(ctx)
	if err != nil {
		w.log.Errorw("failed to clean up idempotency keys", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}

func (w *Worker) checkLowStock(ctx context.Context) {
	items, err := w.stock.LowStock(ctx)
	if err != nil {
		w.log.Errorw("failed to check stock levels", "error", err)
		return
	}
	for _, it := range items {
		w.log.Warnw("inventory below stock limit",
			"inventory_id", it.ID,
			"input", it.InputName,
			"quantity", it.Quantity.String(),
			"stock_limit", it.StockLimit.String(),
			"unit", it.Unit)
	}
}
