package importer

import (
	"context"
	"fmt"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"
	"invoport/internal/domain/documents/invoice"
	"invoport/internal/importer/dump"
	"invoport/internal/importer/identity"
	"invoport/internal/importer/mapping"
	"invoport/internal/importer/totals"
)

// ImportInvoices imports ip_invoices headers. The client reference is
// required: a header whose client was not imported is skipped, as is a
// header with an unknown status or a duplicate number. Aggregates start
// at zero and are rewritten by the item phase.
func (im *Importer) ImportInvoices(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("invoices")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyInvoices, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["invoice_id"])
			if !ok {
				rep.skip(ctx, legacyInvoices, 0, "missing or invalid legacy id")
				return nil
			}

			clientRef, ok := mapping.ParseLegacyID(row["client_id"])
			if !ok || clientRef == 0 {
				rep.skip(ctx, legacyInvoices, legacyID, "missing client reference")
				return nil
			}
			clientID, ok := sess.Resolve(identity.Clients, clientRef)
			if !ok {
				rep.skip(ctx, legacyInvoices, legacyID,
					fmt.Sprintf("client %d was not imported", clientRef))
				return nil
			}

			inv, warnings, err := mapping.InvoiceFromRow(row)
			rep.warn(ctx, legacyInvoices, legacyID, warnings)
			if err != nil {
				rep.skip(ctx, legacyInvoices, legacyID, err.Error())
				return nil
			}

			inv.UserID = im.userID
			inv.ClientID = clientID
			// zero-item default; the item phase overwrites it
			inv.Balance = inv.Total.Sub(inv.PaidAmount)

			if err := inv.Validate(ctx); err != nil {
				rep.skip(ctx, legacyInvoices, legacyID, err.Error())
				return nil
			}

			taken, err := im.repos.Invoices.NumberExists(ctx, inv.Number)
			if err != nil {
				return err
			}
			if taken {
				rep.skip(ctx, legacyInvoices, legacyID,
					fmt.Sprintf("duplicate invoice number %q", inv.Number))
				return nil
			}

			if err := im.repos.Invoices.Create(ctx, inv); err != nil {
				// unique-index violation that the NumberExists check raced past
				if apperror.IsDuplicate(err) {
					rep.skip(ctx, legacyInvoices, legacyID, err.Error())
					return nil
				}
				return err
			}
			sess.Record(identity.Invoices, legacyID, inv.ID)
			im.invoicePaid[inv.ID] = inv.PaidAmount
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.Invoices)
	}
	return rep, nil
}

// ImportInvoiceItems imports ip_invoice_items and recomputes every
// derived amount. The invoice reference is required; so is the product
// reference when the legacy row carries a non-zero product id. The tax
// reference is optional and degrades to a zero rate. After the scan the
// per-invoice aggregates are written back onto the headers.
func (im *Importer) ImportInvoiceItems(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("invoice_items")
	perInvoice := make(map[id.ID][]totals.ItemAmounts)

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		err := r.Scan(legacyInvoiceItems, func(row dump.Row) error {
			rep.Seen++

			legacyID, _ := mapping.ParseLegacyID(row["item_id"])

			invRef, ok := mapping.ParseLegacyID(row["invoice_id"])
			if !ok || invRef == 0 {
				rep.skip(ctx, legacyInvoiceItems, legacyID, "missing invoice reference")
				return nil
			}
			invoiceID, ok := sess.Resolve(identity.Invoices, invRef)
			if !ok {
				rep.skip(ctx, legacyInvoiceItems, legacyID,
					fmt.Sprintf("invoice %d was not imported", invRef))
				return nil
			}

			item, warnings := mapping.InvoiceItemFromRow(row)
			rep.warn(ctx, legacyInvoiceItems, legacyID, warnings)

			if productRef, ok := mapping.ParseLegacyID(row["item_product_id"]); ok && productRef > 0 {
				productID, ok := sess.Resolve(identity.Products, productRef)
				if !ok {
					rep.skip(ctx, legacyInvoiceItems, legacyID,
						fmt.Sprintf("product %d was not imported", productRef))
					return nil
				}
				item.ProductID = &productID
			}

			var percent types.Money
			if taxRef, ok := mapping.ParseLegacyID(row["item_tax_rate_id"]); ok && taxRef > 0 {
				taxID, ok := sess.Resolve(identity.TaxRates, taxRef)
				if !ok {
					rep.warnRef(ctx, legacyInvoiceItems, legacyID, "item_tax_rate_id", taxRef)
				} else {
					item.TaxRateID = &taxID
					pct, err := im.taxPercent(ctx, taxID)
					if err != nil {
						return err
					}
					percent = pct
				}
			}

			amounts := totals.Item(totals.ItemInput{
				Quantity:       item.Quantity,
				Price:          item.Price,
				DiscountAmount: item.DiscountAmount,
				TaxRatePercent: percent,
			})
			item.ID = id.New()
			item.InvoiceID = invoiceID
			item.Subtotal = amounts.Subtotal
			item.DiscountAmount = amounts.DiscountAmount
			item.TaxAmount = amounts.TaxAmount
			item.Total = amounts.Total

			if err := item.Validate(ctx); err != nil {
				rep.skip(ctx, legacyInvoiceItems, legacyID, err.Error())
				return nil
			}

			if err := im.repos.Invoices.CreateItem(ctx, item); err != nil {
				return err
			}
			perInvoice[invoiceID] = append(perInvoice[invoiceID], amounts)
			rep.Imported++
			return nil
		})
		if err != nil {
			return err
		}

		for invoiceID, items := range perInvoice {
			paid, err := im.paidAmount(ctx, invoiceID)
			if err != nil {
				return err
			}
			agg := totals.Aggregate(items, paid)
			err = im.repos.Invoices.UpdateTotals(ctx, invoiceID, invoice.Totals{
				Subtotal:       agg.Subtotal,
				TaxTotal:       agg.TaxTotal,
				DiscountAmount: agg.DiscountAmount,
				Total:          agg.Total,
				Balance:        agg.Balance,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rep, err
}

// taxPercent looks up a rate's percentage, preferring the in-run cache
// over a repository read.
func (im *Importer) taxPercent(ctx context.Context, rateID id.ID) (types.Money, error) {
	if pct, ok := im.taxPercents[rateID]; ok {
		return pct, nil
	}
	rate, err := im.repos.TaxRates.GetByID(ctx, rateID)
	if err != nil {
		return types.Zero(), err
	}
	im.taxPercents[rateID] = rate.Percent
	return rate.Percent, nil
}

// paidAmount looks up an invoice's paid amount, preferring the in-run
// cache over a repository read.
func (im *Importer) paidAmount(ctx context.Context, invoiceID id.ID) (types.Money, error) {
	if paid, ok := im.invoicePaid[invoiceID]; ok {
		return paid, nil
	}
	inv, err := im.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return types.Zero(), err
	}
	im.invoicePaid[invoiceID] = inv.PaidAmount
	return inv.PaidAmount, nil
}
