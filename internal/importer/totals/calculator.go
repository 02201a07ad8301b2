// Package totals recomputes derived monetary fields for invoice items
// and invoices. All arithmetic is decimal; binary floating point never
// touches money.
package totals

import (
	"github.com/shopspring/decimal"

	"invoport/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// ItemInput carries the already-coerced numeric inputs of one line.
type ItemInput struct {
	Quantity       decimal.Decimal
	Price          types.Money
	DiscountAmount types.Money

	// TaxRatePercent is the resolved tax percentage; zero when the
	// referenced rate is absent or id 0.
	TaxRatePercent decimal.Decimal
}

// ItemAmounts are the four derived fields of one line.
type ItemAmounts struct {
	Subtotal       types.Money
	DiscountAmount types.Money
	TaxAmount      types.Money
	Total          types.Money
}

// Item computes the derived amounts of one line:
//
//	subtotal = quantity × price
//	tax      = (subtotal − discount) × rate/100
//	total    = subtotal − discount + tax
func Item(in ItemInput) ItemAmounts {
	subtotal := in.Quantity.Mul(in.Price)
	taxable := subtotal.Sub(in.DiscountAmount)
	tax := taxable.Mul(in.TaxRatePercent).Div(hundred)

	return ItemAmounts{
		Subtotal:       types.Round2(subtotal),
		DiscountAmount: types.Round2(in.DiscountAmount),
		TaxAmount:      types.Round2(tax),
		Total:          types.Round2(subtotal.Sub(in.DiscountAmount).Add(tax)),
	}
}

// InvoiceAmounts are the aggregate fields of an invoice.
type InvoiceAmounts struct {
	Subtotal       types.Money
	TaxTotal       types.Money
	DiscountAmount types.Money
	Total          types.Money
	Balance        types.Money
}

// Aggregate sums line amounts into invoice totals. An invoice with zero
// items gets explicit zero aggregates, never nulls. Balance is
// total − paid.
func Aggregate(items []ItemAmounts, paidAmount types.Money) InvoiceAmounts {
	agg := InvoiceAmounts{
		Subtotal:       decimal.Zero,
		TaxTotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
	}
	for _, it := range items {
		agg.Subtotal = agg.Subtotal.Add(it.Subtotal)
		agg.TaxTotal = agg.TaxTotal.Add(it.TaxAmount)
		agg.DiscountAmount = agg.DiscountAmount.Add(it.DiscountAmount)
		agg.Total = agg.Total.Add(it.Total)
	}
	agg.Balance = agg.Total.Sub(paidAmount)
	return agg
}
