package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/pkg/logger"
)

// Invalidator drops a cached fixed-costs record when another instance
// changes it, using PostgreSQL LISTEN/NOTIFY.
type Invalidator struct {
	pool    *pgxpool.Pool
	channel string
	target  fixedcosts.Cache

	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewInvalidator creates an invalidator for target on channel.
func NewInvalidator(pool *pgxpool.Pool, channel string, target fixedcosts.Cache) *Invalidator {
	return &Invalidator{pool: pool, channel: channel, target: target}
}

// Start begins listening in the background. Calling it twice is a no-op.
func (i *Invalidator) Start(ctx context.Context) {
	i.lifecycleMu.Lock()
	defer i.lifecycleMu.Unlock()
	if i.started {
		return
	}
	ctx, i.cancel = context.WithCancel(ctx)
	i.started = true

	i.wg.Add(1)
	go i.listenLoop(ctx)
	logger.Info(ctx, "cache invalidator started", "channel", i.channel)
}

// Stop ends the listener and waits for it to exit.
func (i *Invalidator) Stop() {
	i.lifecycleMu.Lock()
	if !i.started {
		i.lifecycleMu.Unlock()
		return
	}
	cancel := i.cancel
	i.started = false
	i.cancel = nil
	i.lifecycleMu.Unlock()

	cancel()
	i.wg.Wait()
}

func (i *Invalidator) listenLoop(ctx context.Context) {
	defer i.wg.Done()

	for ctx.Err() == nil {
		conn, err := i.pool.Acquire(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error(ctx, "failed to acquire connection for LISTEN", "error", err)
				sleep(ctx, time.Second)
			}
			continue
		}

		if _, err := conn.Exec(ctx, "LISTEN "+i.channel); err != nil {
			logger.Error(ctx, "failed to LISTEN", "channel", i.channel, "error", err)
			conn.Release()
			sleep(ctx, time.Second)
			continue
		}

		// Anything published while we were disconnected is lost.
		i.invalidate(ctx)
		i.wait(ctx, conn)
		conn.Release()
	}
}

func (i *Invalidator) wait(ctx context.Context, conn *pgxpool.Conn) {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		n, err := conn.Conn().WaitForNotification(waitCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if waitCtx.Err() != nil {
				continue
			}
			logger.Warn(ctx, "LISTEN connection lost", "channel", i.channel, "error", err)
			return
		}
		logger.Debug(ctx, "received notification", "channel", n.Channel)
		i.invalidate(ctx)
	}
}

func (i *Invalidator) invalidate(ctx context.Context) {
	if err := i.target.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "cache invalidation failed", "channel", i.channel, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
