package catalog_repo

import (
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/infrastructure/storage/postgres"
)

const customerTable = "customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	cols := postgres.ExtractDBColumns[customer.Customer]()
	base := NewBaseCatalogRepo[customer.Customer](txm, "customer", customerTable, cols, cols)
	base.searchCols = []string{"name", "email", "phone"}
	base.orderBy = "name ASC"
	base.uniqueFields["customers_email_key"] = "email"
	return &CustomerRepo{BaseCatalogRepo: base}
}
