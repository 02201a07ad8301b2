package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"
	"invoport/internal/domain/documents/invoice"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeQuoteRepo struct {
	quotes map[id.ID]*Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[id.ID]*Quote)}
}

func (f *fakeQuoteRepo) Create(ctx context.Context, q *Quote) error {
	f.quotes[q.ID] = q
	return nil
}

func (f *fakeQuoteRepo) CreateItem(ctx context.Context, item *Item) error {
	q, ok := f.quotes[item.QuoteID]
	if !ok {
		return apperror.NewNotFound("quote", item.QuoteID)
	}
	q.Items = append(q.Items, *item)
	return nil
}

func (f *fakeQuoteRepo) GetByID(ctx context.Context, quoteID id.ID) (*Quote, error) {
	if q, ok := f.quotes[quoteID]; ok {
		return q, nil
	}
	return nil, apperror.NewNotFound("quote", quoteID)
}

func (f *fakeQuoteRepo) SetConverted(ctx context.Context, quoteID, invoiceID id.ID) error {
	q, ok := f.quotes[quoteID]
	if !ok {
		return apperror.NewNotFound("quote", quoteID)
	}
	q.StatusID = StatusConverted
	q.InvoiceID = &invoiceID
	return nil
}

func (f *fakeQuoteRepo) Purge(ctx context.Context) (int64, error) {
	n := int64(len(f.quotes))
	f.quotes = make(map[id.ID]*Quote)
	return n, nil
}

var _ Repository = (*fakeQuoteRepo)(nil)

type fakeInvoiceRepo struct {
	invoices []*invoice.Invoice
	items    []*invoice.Item
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeInvoiceRepo) CreateItem(ctx context.Context, item *invoice.Item) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeInvoiceRepo) UpdateTotals(ctx context.Context, invoiceID id.ID, totals invoice.Totals) error {
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == invoiceID {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", invoiceID)
}

func (f *fakeInvoiceRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvoiceRepo) VerificationCounts(ctx context.Context) (invoice.VerificationCounts, error) {
	return invoice.VerificationCounts{Total: int64(len(f.invoices))}, nil
}

func (f *fakeInvoiceRepo) ListFirstWithItems(ctx context.Context, n int) ([]*invoice.Invoice, error) {
	if n > len(f.invoices) {
		n = len(f.invoices)
	}
	return f.invoices[:n], nil
}

func (f *fakeInvoiceRepo) Purge(ctx context.Context) (int64, error) {
	n := int64(len(f.invoices))
	f.invoices = nil
	f.items = nil
	return n, nil
}

var _ invoice.Repository = (*fakeInvoiceRepo)(nil)

func TestConvert(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	invoices := &fakeInvoiceRepo{}
	svc := NewService(quotes, invoices, fakeTx{})

	q := New(id.New(), id.New(), "Q-42")
	q.StatusID = StatusApproved
	q.Subtotal = types.MustMoney("100")
	q.TaxTotal = types.MustMoney("21")
	q.Total = types.MustMoney("121")
	require.NoError(t, quotes.Create(ctx, q))
	require.NoError(t, quotes.CreateItem(ctx, &Item{
		ID:       id.New(),
		QuoteID:  q.ID,
		Name:     "Design work",
		Quantity: types.MustMoney("1"),
		Price:    types.MustMoney("100"),
		Subtotal: types.MustMoney("100"),
		Total:    types.MustMoney("121"),
	}))

	inv, err := svc.Convert(ctx, q.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-Q-42", inv.Number)
	assert.Equal(t, q.ClientID, inv.ClientID)
	assert.Equal(t, "121", inv.Total.String())
	assert.Equal(t, "121", inv.Balance.String())
	require.Len(t, invoices.items, 1)
	assert.Equal(t, "Design work", invoices.items[0].Name)
	assert.Equal(t, inv.ID, invoices.items[0].InvoiceID)

	assert.Equal(t, StatusConverted, q.StatusID)
	require.NotNil(t, q.InvoiceID)
	assert.Equal(t, inv.ID, *q.InvoiceID)
}

func TestConvert_NumberCollision(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	invoices := &fakeInvoiceRepo{}
	svc := NewService(quotes, invoices, fakeTx{})

	taken := invoice.New(id.New(), id.New(), "INV-Q-7")
	require.NoError(t, invoices.Create(ctx, taken))

	q := New(id.New(), id.New(), "Q-7")
	require.NoError(t, quotes.Create(ctx, q))

	inv, err := svc.Convert(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-Q-7-1", inv.Number)
}

func TestConvert_AlreadyConverted(t *testing.T) {
	ctx := context.Background()
	quotes := newFakeQuoteRepo()
	invoices := &fakeInvoiceRepo{}
	svc := NewService(quotes, invoices, fakeTx{})

	q := New(id.New(), id.New(), "Q-9")
	q.StatusID = StatusConverted
	require.NoError(t, quotes.Create(ctx, q))

	_, err := svc.Convert(ctx, q.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Empty(t, invoices.invoices)
}
