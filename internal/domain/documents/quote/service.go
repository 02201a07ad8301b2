package quote

import (
	"context"
	"fmt"

	"invoport/internal/core/id"
	"invoport/internal/core/tx"
	"invoport/internal/domain/documents/invoice"
)

// Service provides business logic for quotes.
type Service struct {
	quotes   Repository
	invoices invoice.Repository
	tx       tx.Manager
}

// NewService creates a new Quote service.
func NewService(quotes Repository, invoices invoice.Repository, txManager tx.Manager) *Service {
	return &Service{quotes: quotes, invoices: invoices, tx: txManager}
}

// Convert turns an approved quote into a draft invoice. The invoice
// carries the quote's client, items and totals; the quote transitions to
// the converted status referencing the new invoice. Everything happens
// in one transaction.
func (s *Service) Convert(ctx context.Context, quoteID id.ID) (*invoice.Invoice, error) {
	var inv *invoice.Invoice

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetByID(ctx, quoteID)
		if err != nil {
			return err
		}
		if err := q.ConvertToInvoice(id.Nil()); err != nil {
			// probe the transition before allocating anything
			return err
		}

		number, err := s.nextNumber(ctx, q.Number)
		if err != nil {
			return err
		}

		inv = invoice.New(q.UserID, q.ClientID, number)
		inv.IssueDate = q.IssueDate
		inv.Subtotal = q.Subtotal
		inv.TaxTotal = q.TaxTotal
		inv.DiscountAmount = q.DiscountAmount
		inv.Total = q.Total
		inv.Balance = q.Total

		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, it := range q.Items {
			line := invoice.Item{
				ID:             id.New(),
				InvoiceID:      inv.ID,
				ProductID:      it.ProductID,
				TaxRateID:      it.TaxRateID,
				Name:           it.Name,
				Description:    it.Description,
				Quantity:       it.Quantity,
				Price:          it.Price,
				DiscountAmount: it.DiscountAmount,
				Subtotal:       it.Subtotal,
				TaxAmount:      it.TaxAmount,
				Total:          it.Total,
				SortOrder:      it.SortOrder,
			}
			if err := s.invoices.CreateItem(ctx, &line); err != nil {
				return err
			}
		}

		return s.quotes.SetConverted(ctx, quoteID, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// nextNumber derives a free invoice number from the quote number.
func (s *Service) nextNumber(ctx context.Context, quoteNumber string) (string, error) {
	candidate := "INV-" + quoteNumber
	for counter := 1; ; counter++ {
		taken, err := s.invoices.NumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("INV-%s-%d", quoteNumber, counter)
	}
}
