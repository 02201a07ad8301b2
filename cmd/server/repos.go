package main

import (
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/domain/documents/quote"
	"invoport/internal/importer"
	"invoport/internal/infrastructure/storage/postgres"
	"invoport/internal/infrastructure/storage/postgres/catalog_repo"
	"invoport/internal/infrastructure/storage/postgres/document_repo"
)

func buildRepos(txm *postgres.TxManager) importer.Repos {
	return importer.Repos{
		Clients:  catalog_repo.NewClientRepo(txm),
		Products: catalog_repo.NewProductRepo(txm),
		Families: catalog_repo.NewFamilyRepo(txm),
		Units:    catalog_repo.NewUnitRepo(txm),
		TaxRates: catalog_repo.NewTaxRateRepo(txm),
		Invoices: document_repo.NewInvoiceRepo(txm),
	}
}

func buildTaxRateService(txm *postgres.TxManager, repos importer.Repos) *taxrate.Service {
	return taxrate.NewService(repos.TaxRates, txm)
}

func buildQuoteService(txm *postgres.TxManager) *quote.Service {
	return quote.NewService(
		document_repo.NewQuoteRepo(txm),
		document_repo.NewInvoiceRepo(txm),
		txm,
	)
}
