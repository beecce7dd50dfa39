package catalog_repo

import (
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const inputTable = "inputs"

// InputRepo implements input.Repository.
type InputRepo struct {
	*BaseCatalogRepo[input.Input]
}

var _ input.Repository = (*InputRepo)(nil)

// NewInputRepo creates a new input repository.
func NewInputRepo(txm *postgres.TxManager) *InputRepo {
	cols := postgres.ExtractDBColumns[input.Input]()
	base := NewBaseCatalogRepo[input.Input](txm, "input", inputTable, cols, cols)
	base.orderBy = "name ASC"
	return &InputRepo{BaseCatalogRepo: base}
}
