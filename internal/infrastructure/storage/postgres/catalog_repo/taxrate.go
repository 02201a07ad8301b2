package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/infrastructure/storage/postgres"
)

const taxRateTable = "tax_rates"

// TaxRateRepo implements taxrate.Repository.
type TaxRateRepo struct {
	*BaseCatalogRepo[taxrate.TaxRate]
}

// NewTaxRateRepo creates a new tax rate repository.
func NewTaxRateRepo(txm *postgres.TxManager) *TaxRateRepo {
	return &TaxRateRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[taxrate.TaxRate](txm, taxRateTable),
	}
}

var _ taxrate.Repository = (*TaxRateRepo)(nil)

// UnsetDefault clears the default flag wherever it is set.
func (r *TaxRateRepo) UnsetDefault(ctx context.Context) error {
	q := r.Builder().
		Update(taxRateTable).
		Set("is_default", false).
		Where(squirrel.Eq{"is_default": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("unset default: %w", err)
	}
	return nil
}

// MarkDefault sets the default flag on the given rate.
func (r *TaxRateRepo) MarkDefault(ctx context.Context, rateID id.ID) error {
	q := r.Builder().
		Update(taxRateTable).
		Set("is_default", true).
		Where(squirrel.Eq{"id": rateID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark default: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(taxRateTable, rateID.String())
	}
	return nil
}
