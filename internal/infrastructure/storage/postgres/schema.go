package postgres

import (
	"context"
	"fmt"

	"invoport/pkg/logger"
)

// schemaDDL is the target schema, applied idempotently at startup.
// The importer owns its schema: it is a one-shot tool pointed at a fresh
// or previously-imported database, so versioned migrations would be
// overhead without benefit.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		surname TEXT,
		company TEXT,
		gender TEXT,
		language TEXT,
		address_1 TEXT,
		address_2 TEXT,
		city TEXT,
		state TEXT,
		zip TEXT,
		country TEXT,
		phone TEXT,
		fax TEXT,
		mobile TEXT,
		email TEXT,
		web TEXT,
		vat_id TEXT,
		tax_code TEXT,
		birthdate DATE,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS product_families (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS product_units (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		plural_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS tax_rates (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		percent NUMERIC(8,4) NOT NULL DEFAULT 0,
		is_default BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sku TEXT NOT NULL UNIQUE,
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
		provider_name TEXT,
		family_id UUID REFERENCES product_families(id),
		unit_id UUID REFERENCES product_units(id),
		tax_rate_id UUID REFERENCES tax_rates(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		client_id UUID NOT NULL REFERENCES clients(id),
		invoice_number TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'draft',
		issue_date DATE,
		due_date DATE,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		paid_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS invoice_items (
		id UUID PRIMARY KEY,
		invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		product_id UUID REFERENCES products(id),
		tax_rate_id UUID REFERENCES tax_rates(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity NUMERIC(14,4) NOT NULL DEFAULT 0,
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		sort_order INT NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice_id ON invoice_items(invoice_id)`,

	`CREATE TABLE IF NOT EXISTS quote_statuses (
		id INT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,

	`INSERT INTO quote_statuses (id, name) VALUES
		(1, 'draft'), (2, 'sent'), (3, 'viewed'),
		(4, 'approved'), (5, 'rejected'), (6, 'converted')
	ON CONFLICT (id) DO NOTHING`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		client_id UUID NOT NULL REFERENCES clients(id),
		quote_number TEXT NOT NULL UNIQUE,
		status_id INT NOT NULL REFERENCES quote_statuses(id) DEFAULT 1,
		invoice_id UUID REFERENCES invoices(id),
		issue_date DATE,
		valid_until DATE,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_total NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS quote_items (
		id UUID PRIMARY KEY,
		quote_id UUID NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		product_id UUID REFERENCES products(id),
		tax_rate_id UUID REFERENCES tax_rates(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity NUMERIC(14,4) NOT NULL DEFAULT 0,
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		discount_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		subtotal NUMERIC(14,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		total NUMERIC(14,2) NOT NULL DEFAULT 0,
		sort_order INT NOT NULL DEFAULT 0
	)`,
}

// EnsureSchema applies the target schema. Safe to call on every startup.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schemaDDL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	logger.Info(ctx, "schema ensured")
	return nil
}
