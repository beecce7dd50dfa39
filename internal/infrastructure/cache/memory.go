// Package cache keeps the fixed-costs record close to the pricing calculator.
package cache

import (
	"context"
	"sync"
	"time"

	"kitchenledger/internal/domain/fixedcosts"
)

// Memory is an in-process fixedcosts.Cache with a TTL.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	value   *fixedcosts.FixedCosts
	expires time.Time
	now     func() time.Time
}

var _ fixedcosts.Cache = (*Memory)(nil)

// NewMemory creates an empty cache. A non-positive ttl never expires.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context) (*fixedcosts.FixedCosts, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.value == nil {
		return nil, false, nil
	}
	if m.ttl > 0 && !m.now().Before(m.expires) {
		return nil, false, nil
	}
	cp := *m.value
	return &cp, true, nil
}

func (m *Memory) Set(_ context.Context, f *fixedcosts.FixedCosts) error {
	cp := *f

	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = &cp
	m.expires = m.now().Add(m.ttl)
	return nil
}

func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = nil
	return nil
}
