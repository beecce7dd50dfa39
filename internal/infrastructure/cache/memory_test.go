package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/fixedcosts"
)

func sample() *fixedcosts.FixedCosts {
	return &fixedcosts.FixedCosts{
		Rent:                 types.MustMoney("1000"),
		ExpectedMonthlySales: types.MustMoney("200"),
	}
}

func TestMemory_MissThenHit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok, err := m.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, sample()))
	got, ok, err := m.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1000", got.Rent.String())
}

func TestMemory_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Set(ctx, sample()))

	got, _, _ := m.Get(ctx)
	got.Rent = types.MustMoney("1")

	again, ok, _ := m.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "1000", again.Rent.String())
}

func TestMemory_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, sample()))
	now = now.Add(59 * time.Second)
	_, ok, _ := m.Get(ctx)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = m.Get(ctx)
	assert.False(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	require.NoError(t, m.Set(ctx, sample()))
	require.NoError(t, m.Invalidate(ctx))

	_, ok, _ := m.Get(ctx)
	assert.False(t, ok)
}
