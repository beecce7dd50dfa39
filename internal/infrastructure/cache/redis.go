package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kitchenledger/internal/domain/fixedcosts"
)

// FixedCostsKey is the Redis key holding the JSON-encoded record.
const FixedCostsKey = "kitchenledger:fixed_costs"

// Redis is a fixedcosts.Cache shared by every API instance.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ fixedcosts.Cache = (*Redis)(nil)

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// ConnectRedis parses a redis:// URL and pings the server.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context) (*fixedcosts.FixedCosts, bool, error) {
	raw, err := r.client.Get(ctx, FixedCostsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var f fixedcosts.FixedCosts
	if err := json.Unmarshal(raw, &f); err != nil {
		// A value we cannot read is a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return &f, true, nil
}

func (r *Redis) Set(ctx context.Context, f *fixedcosts.FixedCosts) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode fixed costs: %w", err)
	}
	if err := r.client.Set(ctx, FixedCostsKey, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, FixedCostsKey).Err()
}
