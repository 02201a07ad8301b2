package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/documents/quote"
	"invoport/internal/infrastructure/storage/postgres"
)

const (
	quoteTable     = "quotes"
	quoteItemTable = "quote_items"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	txm      *postgres.TxManager
	cols     []string
	itemCols []string
}

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(txm *postgres.TxManager) *QuoteRepo {
	return &QuoteRepo{
		txm:      txm,
		cols:     postgres.ExtractDBColumns[quote.Quote](),
		itemCols: postgres.ExtractDBColumns[quote.Item](),
	}
}

var _ quote.Repository = (*QuoteRepo)(nil)

func (r *QuoteRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts the quote header.
func (r *QuoteRepo) Create(ctx context.Context, q *quote.Quote) error {
	data := postgres.StructToMap(q)
	if q.IssueDate.IsZero() {
		data["issue_date"] = nil
	}
	if q.ValidUntil.IsZero() {
		data["valid_until"] = nil
	}

	sql, args, err := r.builder().
		Insert(quoteTable).
		SetMap(data).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, quoteTable)
	}
	return nil
}

// CreateItem inserts one quote line.
func (r *QuoteRepo) CreateItem(ctx context.Context, item *quote.Item) error {
	sql, args, err := r.builder().
		Insert(quoteItemTable).
		SetMap(postgres.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, quoteItemTable)
	}
	return nil
}

// GetByID retrieves a quote with its items attached.
func (r *QuoteRepo) GetByID(ctx context.Context, quoteID id.ID) (*quote.Quote, error) {
	sql, args, err := r.builder().
		Select(r.cols...).
		From(quoteTable).
		Where(squirrel.Eq{"id": quoteID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var q quote.Quote
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &q, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(quoteTable, quoteID.String())
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}

	itemsSQL, itemsArgs, err := r.builder().
		Select(r.itemCols...).
		From(quoteItemTable).
		Where(squirrel.Eq{"quote_id": quoteID}).
		OrderBy("sort_order").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &q.Items, itemsSQL, itemsArgs...); err != nil {
		return nil, fmt.Errorf("load quote items: %w", err)
	}
	return &q, nil
}

// SetConverted persists the converted status and the invoice reference.
func (r *QuoteRepo) SetConverted(ctx context.Context, quoteID, invoiceID id.ID) error {
	q := r.builder().
		Update(quoteTable).
		Set("status_id", quote.StatusConverted).
		Set("invoice_id", invoiceID).
		Where(squirrel.Eq{"id": quoteID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set converted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(quoteTable, quoteID.String())
	}
	return nil
}

// Purge removes all quotes (items cascade).
func (r *QuoteRepo) Purge(ctx context.Context) (int64, error) {
	sql, args, err := r.builder().Delete(quoteTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, quoteTable)
	}
	return result.RowsAffected(), nil
}
