// Package document_repo provides PostgreSQL implementations for document
// repositories (invoices, quotes).
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/documents/invoice"
	"invoport/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable     = "invoices"
	invoiceItemTable = "invoice_items"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txm      *postgres.TxManager
	cols     []string
	itemCols []string
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txm:      txm,
		cols:     postgres.ExtractDBColumns[invoice.Invoice](),
		itemCols: postgres.ExtractDBColumns[invoice.Item](),
	}
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the invoice header. Items are inserted separately.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	data := postgres.StructToMap(inv)
	// legacy dumps may carry zero dates; store them as NULL
	if inv.IssueDate.IsZero() {
		data["issue_date"] = nil
	}
	if inv.DueDate.IsZero() {
		data["due_date"] = nil
	}

	sql, args, err := r.builder().
		Insert(invoiceTable).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, invoiceTable)
	}
	return nil
}

// CreateItem inserts one invoice line.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *invoice.Item) error {
	sql, args, err := r.builder().
		Insert(invoiceItemTable).
		SetMap(postgres.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, invoiceItemTable)
	}
	return nil
}

// UpdateTotals writes the aggregated amounts onto the header.
func (r *InvoiceRepo) UpdateTotals(ctx context.Context, invoiceID id.ID, totals invoice.Totals) error {
	q := r.builder().
		Update(invoiceTable).
		Set("subtotal", totals.Subtotal).
		Set("tax_total", totals.TaxTotal).
		Set("discount_amount", totals.DiscountAmount).
		Set("total", totals.Total).
		Set("balance", totals.Balance).
		Where(squirrel.Eq{"id": invoiceID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(invoiceTable, invoiceID.String())
	}
	return nil
}

// GetByID retrieves an invoice with its items attached.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(invoiceTable).
		Where(squirrel.Eq{"id": invoiceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(invoiceTable, invoiceID.String())
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	items, err := r.loadItems(ctx, []id.ID{invoiceID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[invoiceID]
	return &inv, nil
}

// NumberExists reports whether an invoice number is already taken.
func (r *InvoiceRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	sql, args, err := r.builder().
		Select("1").
		From(invoiceTable).
		Where(squirrel.Eq{"invoice_number": number}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("number exists: %w", err)
	}
	return true, nil
}

// VerificationCounts computes diagnostic counts over all invoices.
func (r *InvoiceRepo) VerificationCounts(ctx context.Context) (invoice.VerificationCounts, error) {
	const query = `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM invoice_items it WHERE it.invoice_id = i.id
			)) AS with_items,
			COUNT(*) FILTER (WHERE i.total > 0 OR NOT EXISTS (
				SELECT 1 FROM invoice_items it WHERE it.invoice_id = i.id
			)) AS with_totals
		FROM invoices i`

	var counts invoice.VerificationCounts
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, query).
		Scan(&counts.Total, &counts.WithItems, &counts.WithTotals)
	if err != nil {
		return invoice.VerificationCounts{}, fmt.Errorf("verification counts: %w", err)
	}
	return counts, nil
}

// ListFirstWithItems returns the first n invoices in id order with items
// attached. UUIDv7 ids are time-ordered, so this is insertion order.
func (r *InvoiceRepo) ListFirstWithItems(ctx context.Context, n int) ([]*invoice.Invoice, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(invoiceTable).
		OrderBy("id").
		Limit(uint64(n)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var invoices []*invoice.Invoice
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &invoices, sql, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	ids := make([]id.ID, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		inv.Items = items[inv.ID]
	}
	return invoices, nil
}

// loadItems fetches the lines of the given invoices grouped by invoice id.
func (r *InvoiceRepo) loadItems(ctx context.Context, ids []id.ID) (map[id.ID][]invoice.Item, error) {
	sql, args, err := r.builder().
		Select(r.itemCols...).
		From(invoiceItemTable).
		Where(squirrel.Eq{"invoice_id": ids}).
		OrderBy("invoice_id", "sort_order").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []invoice.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	grouped := make(map[id.ID][]invoice.Item, len(ids))
	for _, it := range items {
		grouped[it.InvoiceID] = append(grouped[it.InvoiceID], it)
	}
	return grouped, nil
}

// Purge removes all invoices (items cascade).
func (r *InvoiceRepo) Purge(ctx context.Context) (int64, error) {
	sql, args, err := r.builder().Delete(invoiceTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, invoiceTable)
	}
	return result.RowsAffected(), nil
}
