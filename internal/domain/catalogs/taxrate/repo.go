package taxrate

import (
	"context"

	"invoport/internal/core/id"
)

// Repository defines the interface for TaxRate persistence.
type Repository interface {
	// Create inserts a new tax rate.
	Create(ctx context.Context, rate *TaxRate) error

	// GetByID retrieves a tax rate by id.
	GetByID(ctx context.Context, rateID id.ID) (*TaxRate, error)

	// FindByName retrieves a tax rate by its unique name.
	FindByName(ctx context.Context, name string) (*TaxRate, error)

	// UnsetDefault clears the default flag wherever it is set.
	UnsetDefault(ctx context.Context) error

	// MarkDefault sets the default flag on the given rate.
	MarkDefault(ctx context.Context, rateID id.ID) error

	// Purge removes all tax rates and returns the number deleted.
	// Used before re-running an import.
	Purge(ctx context.Context) (int64, error)
}
