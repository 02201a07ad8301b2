package importer

import (
	"context"
	"fmt"

	"invoport/internal/core/tx"
	"invoport/internal/core/types"
	"invoport/internal/domain/documents/invoice"
	"invoport/pkg/logger"
)

// Verification statuses.
const (
	VerifyNoInvoices  = "no_invoices"
	VerifySuccess     = "success"
	VerifyIssuesFound = "issues_found"
)

// sampleSize is how many invoices get the detailed per-field check.
// Counts are always computed over the full set.
const sampleSize = 5

// maxIssues bounds the issue list in a verification report.
const maxIssues = 50

// VerificationReport is the outcome of the post-import diagnostic pass.
type VerificationReport struct {
	Status     string   `json:"status"`
	Total      int64    `json:"total"`
	WithItems  int64    `json:"withItems"`
	WithTotals int64    `json:"withTotals"`
	Sampled    int      `json:"sampled"`
	Issues     []string `json:"issues,omitempty"`
}

func (r *VerificationReport) addIssue(format string, args ...any) {
	if len(r.Issues) < maxIssues {
		r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
	}
}

// Verifier runs the read-only diagnostic pass over persisted invoices.
type Verifier struct {
	tx       tx.ReadOnlyManager
	invoices invoice.Repository
}

// NewVerifier creates a Verifier.
func NewVerifier(txManager tx.ReadOnlyManager, invoices invoice.Repository) *Verifier {
	return &Verifier{tx: txManager, invoices: invoices}
}

// Verify computes counts over all invoices and field-level checks over
// the first sampleSize of them. It never writes.
func (v *Verifier) Verify(ctx context.Context) (*VerificationReport, error) {
	rep := &VerificationReport{}

	err := v.tx.ReadOnly(ctx, func(ctx context.Context) error {
		counts, err := v.invoices.VerificationCounts(ctx)
		if err != nil {
			return err
		}
		rep.Total = counts.Total
		rep.WithItems = counts.WithItems
		rep.WithTotals = counts.WithTotals

		if counts.Total == 0 {
			return nil
		}

		sample, err := v.invoices.ListFirstWithItems(ctx, sampleSize)
		if err != nil {
			return err
		}
		rep.Sampled = len(sample)
		for _, inv := range sample {
			v.checkInvoice(rep, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case rep.Total == 0:
		rep.Status = VerifyNoInvoices
	case len(rep.Issues) > 0:
		rep.Status = VerifyIssuesFound
	default:
		rep.Status = VerifySuccess
	}

	logger.Info(ctx, "verification finished",
		"status", rep.Status, "total", rep.Total,
		"with_items", rep.WithItems, "issues", len(rep.Issues))
	return rep, nil
}

// checkInvoice verifies one invoice and its items field by field.
func (v *Verifier) checkInvoice(rep *VerificationReport, inv *invoice.Invoice) {
	if inv.Number == "" {
		rep.addIssue("invoices.invoice_number: empty on %s", inv.ID)
	}

	var sumTotal types.Money = types.Zero()
	for _, it := range inv.Items {
		if it.Name == "" {
			rep.addIssue("invoice_items.name: empty on %s", it.ID)
		}
		if it.Quantity.IsNegative() {
			rep.addIssue("invoice_items.quantity: negative (%s) on %s", it.Quantity, it.ID)
		}
		if it.Price.IsNegative() {
			rep.addIssue("invoice_items.price: negative (%s) on %s", it.Price, it.ID)
		}
		want := it.Subtotal.Sub(it.DiscountAmount).Add(it.TaxAmount)
		if !types.WithinTolerance(it.Total, want) {
			rep.addIssue("invoice_items.total: %s != subtotal - discount + tax (%s) on %s",
				it.Total, want, it.ID)
		}
		sumTotal = sumTotal.Add(it.Total)
	}

	if len(inv.Items) > 0 && !types.WithinTolerance(inv.Total, sumTotal) {
		rep.addIssue("invoices.total: %s != sum of item totals (%s) on %s",
			inv.Total, sumTotal, inv.ID)
	}
	if !types.WithinTolerance(inv.Balance, inv.Total.Sub(inv.PaidAmount)) {
		rep.addIssue("invoices.balance: %s != total - paid (%s) on %s",
			inv.Balance, inv.Total.Sub(inv.PaidAmount), inv.ID)
	}
}
