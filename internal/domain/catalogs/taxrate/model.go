// Package taxrate provides the TaxRate catalog.
// Tax rates are flat lookup entries referenced by products and invoice
// items; at most one rate may be flagged as the default at any time.
package taxrate

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"
)

// TaxRate represents a named tax percentage.
type TaxRate struct {
	ID id.ID `db:"id" json:"id"`

	// Name is unique across the catalog
	Name string `db:"name" json:"name"`

	// Percent is the tax percentage (e.g. 21.00 for 21%)
	Percent types.Money `db:"percent" json:"percent"`

	// IsDefault marks the rate preselected for new documents.
	// Invariant: at most one rate carries the flag; enforced by
	// Service.SetDefault, never by direct writes.
	IsDefault bool `db:"is_default" json:"isDefault"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a TaxRate with a generated id.
func New(name string, percent types.Money) *TaxRate {
	return &TaxRate{
		ID:        id.New(),
		Name:      name,
		Percent:   percent,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (t *TaxRate) Validate(ctx context.Context) error {
	if t.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if t.Percent.IsNegative() {
		return apperror.NewValidation("percent must not be negative").
			WithDetail("field", "percent").
			WithDetail("value", t.Percent.String())
	}
	return nil
}
