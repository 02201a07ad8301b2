package catalog_repo

import (
	"invoport/internal/domain/catalogs/client"
	"invoport/internal/infrastructure/storage/postgres"
)

const clientTable = "clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[client.Client](txm, clientTable),
	}
}

var _ client.Repository = (*ClientRepo)(nil)
