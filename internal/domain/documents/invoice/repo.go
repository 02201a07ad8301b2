package invoice

import (
	"context"

	"invoport/internal/core/id"
	"invoport/internal/core/types"
)

// Totals carries aggregate amounts written back after item persistence.
type Totals struct {
	Subtotal       types.Money
	TaxTotal       types.Money
	DiscountAmount types.Money
	Total          types.Money
	Balance        types.Money
}

// VerificationCounts summarizes persisted invoices for the diagnostic pass.
type VerificationCounts struct {
	Total      int64
	WithItems  int64
	WithTotals int64
}

// Repository defines the interface for Invoice persistence.
type Repository interface {
	// Create inserts the invoice header (items are inserted separately).
	Create(ctx context.Context, inv *Invoice) error

	// CreateItem inserts one invoice line.
	CreateItem(ctx context.Context, item *Item) error

	// UpdateTotals writes the aggregated amounts onto the header.
	UpdateTotals(ctx context.Context, invoiceID id.ID, totals Totals) error

	// GetByID retrieves an invoice with its items.
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// NumberExists reports whether an invoice number is already taken.
	NumberExists(ctx context.Context, number string) (bool, error)

	// VerificationCounts computes diagnostic counts over all invoices.
	VerificationCounts(ctx context.Context) (VerificationCounts, error)

	// ListFirstWithItems returns the first n invoices (by id order)
	// with items attached, for the detailed verification sample.
	ListFirstWithItems(ctx context.Context, n int) ([]*Invoice, error)

	// Purge removes all invoices (items cascade) and returns the
	// number of invoices deleted.
	Purge(ctx context.Context) (int64, error)
}
