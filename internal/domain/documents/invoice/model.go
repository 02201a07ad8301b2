// Package invoice provides the Invoice document and its line items.
package invoice

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"

	"github.com/shopspring/decimal"
)

// Invoice represents a billing document issued to a client.
type Invoice struct {
	ID id.ID `db:"id" json:"id"`

	// UserID is the creating user
	UserID id.ID `db:"user_id" json:"userId"`

	// ClientID is the billed client
	ClientID id.ID `db:"client_id" json:"clientId"`

	// Number is unique; duplicate numbers are skipped on import
	Number string `db:"invoice_number" json:"invoiceNumber"`

	Status Status `db:"status" json:"status"`

	IssueDate time.Time `db:"issue_date" json:"issueDate"`
	DueDate   time.Time `db:"due_date" json:"dueDate"`

	// Derived totals, aggregated from items
	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	TaxTotal       types.Money `db:"tax_total" json:"taxTotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	Total          types.Money `db:"total" json:"total"`

	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`
	Balance    types.Money `db:"balance" json:"balance"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Table part
	Items []Item `db:"-" json:"items"`
}

// Item represents one invoice line.
type Item struct {
	ID        id.ID `db:"id" json:"id"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	// ProductID is optional; free-text lines have none
	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`
	TaxRateID *id.ID `db:"tax_rate_id" json:"taxRateId,omitempty"`

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`

	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	Price          types.Money     `db:"price" json:"price"`
	DiscountAmount types.Money     `db:"discount_amount" json:"discountAmount"`

	// Derived fields
	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	Total     types.Money `db:"total" json:"total"`

	SortOrder int `db:"sort_order" json:"sortOrder"`
}

// New creates an Invoice with a generated id.
func New(userID, clientID id.ID, number string) *Invoice {
	return &Invoice{
		ID:        id.New(),
		UserID:    userID,
		ClientID:  clientID,
		Number:    number,
		Status:    StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (inv *Invoice) Validate(ctx context.Context) error {
	if id.IsNil(inv.UserID) {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	if id.IsNil(inv.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if inv.Number == "" {
		return apperror.NewValidation("invoice number is required").
			WithDetail("field", "invoiceNumber")
	}
	if !inv.Status.Valid() {
		return apperror.NewUnknownStatus(string(inv.Status))
	}
	if !inv.IssueDate.IsZero() && !inv.DueDate.IsZero() && inv.DueDate.Before(inv.IssueDate) {
		return apperror.NewValidation("due date must not precede issue date").
			WithDetail("field", "dueDate")
	}
	return nil
}

// Validate checks line invariants.
func (it *Item) Validate(ctx context.Context) error {
	if it.Name == "" {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}
	if it.Quantity.IsNegative() {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("field", "quantity").
			WithDetail("value", it.Quantity.String())
	}
	return nil
}
