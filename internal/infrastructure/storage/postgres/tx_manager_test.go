package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxManager_NestedCallsJoinOuterTransaction(t *testing.T) {
	m := &TxManager{}
	outer := &Tx{}
	ctx := context.WithValue(context.Background(), txKey{}, outer)
	boom := errors.New("boom")

	var seen []*Tx
	err := m.RunInTransaction(ctx, func(ctx context.Context) error {
		seen = append(seen, m.GetTx(ctx))
		return m.ReadOnly(ctx, func(ctx context.Context) error {
			seen = append(seen, m.GetTx(ctx))
			return boom
		})
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []*Tx{outer, outer}, seen)
}
