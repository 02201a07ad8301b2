// Package importer ports legacy SQL dumps into the target schema.
// The pipeline is a fixed sequence of phases, one entity type each:
// tax rates → families → units → products → clients → invoices →
// invoice items. Every phase reads the dump, maps fields, rewrites
// foreign keys through the identity session and persists inside one
// transaction; phases are independently committed so a late failure
// never discards earlier committed work. A dry run instead shares one
// transaction across every phase and rolls it back at the end, so
// cross-phase references stay resolvable while nothing persists.
package importer

import (
	"context"
	"errors"

	"invoport/internal/core/id"
	"invoport/internal/core/runctx"
	"invoport/internal/core/tx"
	"invoport/internal/core/types"
	"invoport/internal/domain/catalogs/client"
	"invoport/internal/domain/catalogs/family"
	"invoport/internal/domain/catalogs/product"
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/domain/catalogs/unit"
	"invoport/internal/domain/documents/invoice"
	"invoport/internal/importer/dump"
	"invoport/internal/importer/identity"
	"invoport/pkg/logger"
)

// Legacy table names as exported by the predecessor system.
const (
	legacyTaxRates     = "ip_tax_rates"
	legacyFamilies     = "ip_families"
	legacyUnits        = "ip_units"
	legacyProducts     = "ip_products"
	legacyClients      = "ip_clients"
	legacyInvoices     = "ip_invoices"
	legacyInvoiceItems = "ip_invoice_items"
)

// LegacyTables lists the dump tables the pipeline reads, in phase order.
func LegacyTables() []string {
	return []string{
		legacyTaxRates, legacyFamilies, legacyUnits, legacyProducts,
		legacyClients, legacyInvoices, legacyInvoiceItems,
	}
}

// Repos bundles the repositories the pipeline writes through.
type Repos struct {
	Clients  client.Repository
	Products product.Repository
	Families family.Repository
	Units    unit.Repository
	TaxRates taxrate.Repository
	Invoices invoice.Repository
}

// Importer runs import phases against the target database.
type Importer struct {
	tx    tx.Manager
	repos Repos

	// userID is the creator recorded on imported invoices
	userID id.ID

	// taxPercents caches rate percentages recorded during the tax-rate
	// phase, keyed by new id. Saves a repository read per item line.
	taxPercents map[id.ID]types.Money

	// invoicePaid caches per-header paid amounts recorded during the
	// invoice phase, same motivation as taxPercents.
	invoicePaid map[id.ID]types.Money
}

// New creates an Importer.
func New(txManager tx.Manager, repos Repos, userID id.ID) *Importer {
	return &Importer{
		tx:          txManager,
		repos:       repos,
		userID:      userID,
		taxPercents: make(map[id.ID]types.Money),
		invoicePaid: make(map[id.ID]types.Money),
	}
}

// errDryRun forces a rollback once all counts have been collected. On a
// standalone phase dry run it unwinds that phase's transaction; during a
// complete dry run it bubbles out of the joined transaction untouched
// and CompleteImport unwinds the outer one.
var errDryRun = errors.New("dry run: rolling back")

// runPhase wraps one phase in a transaction. When a transaction is
// already on the context (the complete dry run), the manager joins it
// instead of opening a new one. On dry runs every step is performed and
// then the work is rolled back, so the reported counts are exact.
func (im *Importer) runPhase(ctx context.Context, phase string, dryRun bool, fn func(ctx context.Context) error) error {
	ctx = runctx.WithPhase(ctx, phase)
	logger.Info(ctx, "phase started")

	err := im.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		logger.Error(ctx, "phase failed", "error", err)
		return err
	}

	logger.Info(ctx, "phase finished")
	return nil
}

// CompleteImport runs every phase in dependency order against one dump
// file. A hard failure (parse error, database error, not a per-row skip)
// aborts the remaining phases; results collected so far are returned.
//
// On a dry run every phase executes inside one shared transaction that
// is rolled back after the last phase. Per-phase rollbacks would strand
// the identity session: an invoice insert would then reference a client
// row that no longer exists.
func (im *Importer) CompleteImport(ctx context.Context, r *dump.Reader, dryRun bool) *CompleteResult {
	ctx = runctx.WithRun(ctx, runctx.NewRun(dryRun))
	sess := identity.NewSession()
	result := &CompleteResult{}

	if dryRun {
		err := im.tx.RunInTransaction(ctx, func(ctx context.Context) error {
			im.runSteps(ctx, r, sess, dryRun, result)
			return errDryRun
		})
		if err != nil && !errors.Is(err, errDryRun) {
			logger.Error(ctx, "dry run failed", "error", err)
		}
		return result
	}

	im.runSteps(ctx, r, sess, dryRun, result)
	return result
}

func (im *Importer) runSteps(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool, result *CompleteResult) {
	steps := []struct {
		phase string
		run   func(context.Context) (*PhaseReport, error)
	}{
		{"tax_rates", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportTaxRates(ctx, r, sess, dryRun)
		}},
		{"families", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportFamilies(ctx, r, sess, dryRun)
		}},
		{"units", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportUnits(ctx, r, sess, dryRun)
		}},
		{"products", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportProducts(ctx, r, sess, dryRun)
		}},
		{"clients", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportClients(ctx, r, sess, dryRun)
		}},
		{"invoices", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportInvoices(ctx, r, sess, dryRun)
		}},
		{"invoice_items", func(ctx context.Context) (*PhaseReport, error) {
			return im.ImportInvoiceItems(ctx, r, sess, dryRun)
		}},
	}

	for _, step := range steps {
		rep, err := step.run(ctx)
		result.add(rep, err)
		if err != nil {
			result.Aborted = step.phase
			logger.Error(ctx, "import aborted", "phase", step.phase, "error", err)
			break
		}
	}
}
