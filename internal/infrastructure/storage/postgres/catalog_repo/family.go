package catalog_repo

import (
	"invoport/internal/domain/catalogs/family"
	"invoport/internal/infrastructure/storage/postgres"
)

const familyTable = "product_families"

// FamilyRepo implements family.Repository.
type FamilyRepo struct {
	*BaseCatalogRepo[family.Family]
}

// NewFamilyRepo creates a new family repository.
func NewFamilyRepo(txm *postgres.TxManager) *FamilyRepo {
	return &FamilyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[family.Family](txm, familyTable),
	}
}

var _ family.Repository = (*FamilyRepo)(nil)
