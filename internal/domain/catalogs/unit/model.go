// Package unit provides the ProductUnit catalog (measurement units).
package unit

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
)

// Unit represents a sales unit for products.
type Unit struct {
	ID id.ID `db:"id" json:"id"`

	// Name is unique across the catalog (e.g. "hour", "piece")
	Name string `db:"name" json:"name"`

	// PluralName is the display form for quantities above one
	PluralName *string `db:"plural_name" json:"pluralName,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a Unit with a generated id.
func New(name string) *Unit {
	return &Unit{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (u *Unit) Validate(ctx context.Context) error {
	if u.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines the interface for Unit persistence.
type Repository interface {
	Create(ctx context.Context, unit *Unit) error
	FindByName(ctx context.Context, name string) (*Unit, error)
	Purge(ctx context.Context) (int64, error)
}
