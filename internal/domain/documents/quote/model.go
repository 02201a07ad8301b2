// Package quote provides the Quote document, a pre-invoice offer.
// Unlike invoices, quote statuses live in a lookup table; a quote that is
// accepted transitions to the converted status with a reference to the
// invoice created from it.
package quote

import (
	"context"
	"time"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"

	"github.com/shopspring/decimal"
)

// Status ids as seeded in the quote_statuses lookup table.
const (
	StatusDraft     = 1
	StatusSent      = 2
	StatusViewed    = 3
	StatusApproved  = 4
	StatusRejected  = 5
	StatusConverted = 6
)

// Quote represents an offer issued to a client.
type Quote struct {
	ID       id.ID `db:"id" json:"id"`
	UserID   id.ID `db:"user_id" json:"userId"`
	ClientID id.ID `db:"client_id" json:"clientId"`

	Number string `db:"quote_number" json:"quoteNumber"`

	// StatusID references the quote_statuses lookup table
	StatusID int `db:"status_id" json:"statusId"`

	// InvoiceID is set when the quote is converted
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	IssueDate  time.Time `db:"issue_date" json:"issueDate"`
	ValidUntil time.Time `db:"valid_until" json:"validUntil"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	TaxTotal       types.Money `db:"tax_total" json:"taxTotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	Total          types.Money `db:"total" json:"total"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Items []Item `db:"-" json:"items"`
}

// Item represents one quote line.
type Item struct {
	ID      id.ID `db:"id" json:"id"`
	QuoteID id.ID `db:"quote_id" json:"quoteId"`

	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`
	TaxRateID *id.ID `db:"tax_rate_id" json:"taxRateId,omitempty"`

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`

	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	Price          types.Money     `db:"price" json:"price"`
	DiscountAmount types.Money     `db:"discount_amount" json:"discountAmount"`

	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	Total     types.Money `db:"total" json:"total"`

	SortOrder int `db:"sort_order" json:"sortOrder"`
}

// New creates a Quote with a generated id.
func New(userID, clientID id.ID, number string) *Quote {
	return &Quote{
		ID:        id.New(),
		UserID:    userID,
		ClientID:  clientID,
		Number:    number,
		StatusID:  StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (q *Quote) Validate(ctx context.Context) error {
	if id.IsNil(q.UserID) {
		return apperror.NewValidation("user is required").
			WithDetail("field", "userId")
	}
	if id.IsNil(q.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if q.Number == "" {
		return apperror.NewValidation("quote number is required").
			WithDetail("field", "quoteNumber")
	}
	if !q.IssueDate.IsZero() && !q.ValidUntil.IsZero() && q.ValidUntil.Before(q.IssueDate) {
		return apperror.NewValidation("valid-until date must not precede issue date").
			WithDetail("field", "validUntil")
	}
	return nil
}

// ConvertToInvoice transitions the quote to the converted status and
// records the resulting invoice. Converting twice is an error.
func (q *Quote) ConvertToInvoice(invoiceID id.ID) error {
	if q.StatusID == StatusConverted {
		return apperror.NewConflict("quote is already converted").
			WithDetail("quoteId", q.ID.String())
	}
	if q.StatusID == StatusRejected {
		return apperror.NewConflict("rejected quote cannot be converted").
			WithDetail("quoteId", q.ID.String())
	}
	q.StatusID = StatusConverted
	q.InvoiceID = &invoiceID
	return nil
}

// Repository defines the interface for Quote persistence.
type Repository interface {
	Create(ctx context.Context, q *Quote) error
	CreateItem(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, quoteID id.ID) (*Quote, error)

	// SetConverted persists the converted status and invoice reference.
	SetConverted(ctx context.Context, quoteID, invoiceID id.ID) error

	Purge(ctx context.Context) (int64, error)
}
