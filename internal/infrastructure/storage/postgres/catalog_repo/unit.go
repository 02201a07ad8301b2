package catalog_repo

import (
	"invoport/internal/domain/catalogs/unit"
	"invoport/internal/infrastructure/storage/postgres"
)

const unitTable = "product_units"

// UnitRepo implements unit.Repository.
type UnitRepo struct {
	*BaseCatalogRepo[unit.Unit]
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(txm *postgres.TxManager) *UnitRepo {
	return &UnitRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[unit.Unit](txm, unitTable),
	}
}

var _ unit.Repository = (*UnitRepo)(nil)
