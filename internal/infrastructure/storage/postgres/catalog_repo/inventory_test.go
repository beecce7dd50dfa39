package catalog_repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/core/types"
)

func TestInventoryRepo_RejectsNonPositiveMovements(t *testing.T) {
	repo := NewInventoryRepo(nil)
	ctx := context.Background()

	for _, amount := range []types.Quantity{0, -types.Quantity(types.QuantityScale)} {
		ok, err := repo.Deduct(ctx, id.New(), amount)
		assert.False(t, ok)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue), "deduct %s", amount)

		err = repo.Restore(ctx, id.New(), amount)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidValue), "restore %s", amount)
	}
}
