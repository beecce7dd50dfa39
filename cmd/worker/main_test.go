package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/pkg/logger"
)

type countingCleaner struct{ calls atomic.Int32 }

func (c *countingCleaner) CleanupExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 2, nil
}

type countingStock struct {
	calls atomic.Int32
	err   error
}

func (s *countingStock) LowStock(context.Context) ([]*inventory.LowStock, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []*inventory.LowStock{{
		Item:       inventory.Item{InputName: "Sugar", Quantity: types.NewQuantityFromInt(1)},
		StockLimit: types.NewQuantityFromInt(3),
	}}, nil
}

func TestWorker_RunsJobsUntilCancelled(t *testing.T) {
	cleaner := &countingCleaner{}
	stock := &countingStock{}
	w := NewWorker(cleaner, stock, logger.NewNop())
	w.CleanupInterval = 5 * time.Millisecond
	w.LowStockInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return cleaner.calls.Load() >= 2 && stock.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_StockErrorDoesNotStop(t *testing.T) {
	stock := &countingStock{err: errors.New("db down")}
	w := NewWorker(&countingCleaner{}, stock, logger.NewNop())
	w.LowStockInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool { return stock.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}
