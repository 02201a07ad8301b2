package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoport/internal/core/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestItem_NoTaxNoDiscount(t *testing.T) {
	got := Item(ItemInput{
		Quantity: dec("2"),
		Price:    dec("10.00"),
	})
	assert.Equal(t, "20", got.Subtotal.String())
	assert.Equal(t, "0", got.TaxAmount.String())
	assert.Equal(t, "20", got.Total.String())
}

func TestItem_TaxAppliesAfterDiscount(t *testing.T) {
	got := Item(ItemInput{
		Quantity:       dec("3"),
		Price:          dec("100.00"),
		DiscountAmount: dec("50.00"),
		TaxRatePercent: dec("21"),
	})
	// subtotal 300, taxable 250, tax 52.50, total 302.50
	assert.Equal(t, "300", got.Subtotal.String())
	assert.Equal(t, "52.5", got.TaxAmount.String())
	assert.Equal(t, "302.5", got.Total.String())
}

func TestItem_RoundsToCents(t *testing.T) {
	got := Item(ItemInput{
		Quantity:       dec("1"),
		Price:          dec("9.99"),
		TaxRatePercent: dec("7.7"),
	})
	// 9.99 * 0.077 = 0.769230 → 0.77
	assert.Equal(t, "0.77", got.TaxAmount.String())
}

func TestItem_TotalIdentityHolds(t *testing.T) {
	inputs := []ItemInput{
		{Quantity: dec("0.5"), Price: dec("3.33"), TaxRatePercent: dec("19")},
		{Quantity: dec("7"), Price: dec("0.07"), DiscountAmount: dec("0.10"), TaxRatePercent: dec("100")},
		{Quantity: dec("1000"), Price: dec("12.345"), DiscountAmount: dec("1.99"), TaxRatePercent: dec("0")},
		{Quantity: dec("0"), Price: dec("50"), TaxRatePercent: dec("21")},
	}
	for _, in := range inputs {
		got := Item(in)
		want := got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount)
		assert.True(t, types.WithinTolerance(got.Total, want),
			"total %s deviates from subtotal-discount+tax %s", got.Total, want)
	}
}

func TestAggregate_SumsLines(t *testing.T) {
	items := []ItemAmounts{
		{Subtotal: dec("20.00"), DiscountAmount: dec("0"), TaxAmount: dec("4.20"), Total: dec("24.20")},
		{Subtotal: dec("5.00"), DiscountAmount: dec("1.00"), TaxAmount: dec("0"), Total: dec("4.00")},
	}
	got := Aggregate(items, dec("10.00"))

	assert.Equal(t, "25", got.Subtotal.String())
	assert.Equal(t, "4.2", got.TaxTotal.String())
	assert.Equal(t, "1", got.DiscountAmount.String())
	assert.Equal(t, "28.2", got.Total.String())
	assert.Equal(t, "18.2", got.Balance.String())
}

func TestAggregate_ZeroItems(t *testing.T) {
	got := Aggregate(nil, decimal.Zero)

	assert.True(t, got.Subtotal.Equal(decimal.Zero))
	assert.True(t, got.TaxTotal.Equal(decimal.Zero))
	assert.True(t, got.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, got.Total.Equal(decimal.Zero))
	assert.True(t, got.Balance.Equal(decimal.Zero))
}
