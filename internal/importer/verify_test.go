package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/id"
	"invoport/internal/core/types"
	"invoport/internal/domain/documents/invoice"
)

func TestVerify_NoInvoices(t *testing.T) {
	env := newTestEnv()
	v := NewVerifier(fakeTx{}, env.invoices)

	rep, err := v.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VerifyNoInvoices, rep.Status)
	assert.Zero(t, rep.Total)
}

func TestVerify_Success(t *testing.T) {
	env := newTestEnv()

	inv := invoice.New(id.New(), id.New(), "INV-001")
	inv.Subtotal = types.MustMoney("20.00")
	inv.Total = types.MustMoney("20.00")
	inv.Balance = types.MustMoney("20.00")
	require.NoError(t, env.invoices.Create(context.Background(), inv))
	require.NoError(t, env.invoices.CreateItem(context.Background(), &invoice.Item{
		ID:        id.New(),
		InvoiceID: inv.ID,
		Name:      "Consulting",
		Quantity:  types.MustMoney("2"),
		Price:     types.MustMoney("10.00"),
		Subtotal:  types.MustMoney("20.00"),
		Total:     types.MustMoney("20.00"),
	}))

	rep, err := NewVerifier(fakeTx{}, env.invoices).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VerifySuccess, rep.Status)
	assert.Equal(t, int64(1), rep.Total)
	assert.Equal(t, int64(1), rep.WithItems)
	assert.Equal(t, 1, rep.Sampled)
	assert.Empty(t, rep.Issues)
}

func TestVerify_FlagsInconsistencies(t *testing.T) {
	env := newTestEnv()

	inv := invoice.New(id.New(), id.New(), "")
	inv.Total = types.MustMoney("99.00") // header disagrees with its one item
	require.NoError(t, env.invoices.Create(context.Background(), inv))
	require.NoError(t, env.invoices.CreateItem(context.Background(), &invoice.Item{
		ID:        id.New(),
		InvoiceID: inv.ID,
		Name:      "", // missing name
		Subtotal:  types.MustMoney("20.00"),
		Total:     types.MustMoney("20.00"),
	}))

	rep, err := NewVerifier(fakeTx{}, env.invoices).Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, VerifyIssuesFound, rep.Status)
	assert.NotEmpty(t, rep.Issues)
}
