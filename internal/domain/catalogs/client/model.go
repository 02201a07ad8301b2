// Package client provides the Client catalog.
// Clients are referenced by invoices and quotes; there is no uniqueness
// constraint on names, so re-importing the same dump twice produces
// duplicate clients.
package client

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
)

// Client represents a customer.
type Client struct {
	ID id.ID `db:"id" json:"id"`

	// Name is required; an empty legacy name fails validation and the
	// row is skipped during import.
	Name    string  `db:"name" json:"name"`
	Surname *string `db:"surname" json:"surname,omitempty"`
	Company *string `db:"company" json:"company,omitempty"`

	// Gender is "male" or "female" when known
	Gender   *string `db:"gender" json:"gender,omitempty"`
	Language *string `db:"language" json:"language,omitempty"`

	Address1 *string `db:"address_1" json:"address1,omitempty"`
	Address2 *string `db:"address_2" json:"address2,omitempty"`
	City     *string `db:"city" json:"city,omitempty"`
	State    *string `db:"state" json:"state,omitempty"`
	Zip      *string `db:"zip" json:"zip,omitempty"`
	Country  *string `db:"country" json:"country,omitempty"`

	Phone  *string `db:"phone" json:"phone,omitempty"`
	Fax    *string `db:"fax" json:"fax,omitempty"`
	Mobile *string `db:"mobile" json:"mobile,omitempty"`
	Email  *string `db:"email" json:"email,omitempty"`
	Web    *string `db:"web" json:"web,omitempty"`

	VATID   *string `db:"vat_id" json:"vatId,omitempty"`
	TaxCode *string `db:"tax_code" json:"taxCode,omitempty"`

	Birthdate *time.Time `db:"birthdate" json:"birthdate,omitempty"`

	IsActive bool `db:"is_active" json:"isActive"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a Client with a generated id.
func New(name string) *Client {
	return &Client{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (c *Client) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines the interface for Client persistence.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, clientID id.ID) (*Client, error)
	Purge(ctx context.Context) (int64, error)
}
