// Package product provides the Product catalog.
package product

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"
)

// Product represents a sellable item or service.
type Product struct {
	ID id.ID `db:"id" json:"id"`

	// Name is required
	Name string `db:"name" json:"name"`

	// Description keeps the empty string (not NULL) when the legacy
	// value is empty
	Description string `db:"description" json:"description"`

	// SKU is unique; generated from the name when the legacy row has
	// none, de-duplicated by suffixing on collision
	SKU string `db:"sku" json:"sku"`

	Price         types.Money `db:"price" json:"price"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	ProviderName *string `db:"provider_name" json:"providerName,omitempty"`

	FamilyID  *id.ID `db:"family_id" json:"familyId,omitempty"`
	UnitID    *id.ID `db:"unit_id" json:"unitId,omitempty"`
	TaxRateID *id.ID `db:"tax_rate_id" json:"taxRateId,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a Product with a generated id.
func New(name string) *Product {
	return &Product{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price").
			WithDetail("value", p.Price.String())
	}
	return nil
}

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// SKUExists reports whether any product already carries the SKU.
	SKUExists(ctx context.Context, sku string) (bool, error)

	Purge(ctx context.Context) (int64, error)
}
