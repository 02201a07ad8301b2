// Package family provides the ProductFamily catalog.
package family

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
)

// Family groups products (e.g. "Beverages", "Hardware").
type Family struct {
	ID id.ID `db:"id" json:"id"`

	// Name is unique across the catalog
	Name string `db:"name" json:"name"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a Family with a generated id.
func New(name string) *Family {
	return &Family{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (f *Family) Validate(ctx context.Context) error {
	if f.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines the interface for Family persistence.
type Repository interface {
	Create(ctx context.Context, fam *Family) error
	FindByName(ctx context.Context, name string) (*Family, error)
	Purge(ctx context.Context) (int64, error)
}
