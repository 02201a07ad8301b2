// Package main is the one-shot legacy import CLI. It reads a SQL dump
// exported from the predecessor invoicing system and loads it into the
// target database, phase by phase.
//
// Usage:
//
//	importer -dump legacy.sql                        full import
//	importer -dump legacy.sql -dry-run               count without committing
//	importer -dump legacy.sql -save-id-maps ids.json full import, keep the id maps
//	importer -dump legacy.sql -phase invoices -id-maps ids.json
//	importer -verify                                 diagnostic pass only
//	importer -purge                                  delete all imported data
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"invoport/internal/importer"
	"invoport/internal/importer/dump"
	"invoport/internal/importer/identity"
	"invoport/internal/infrastructure/storage/postgres"
	"invoport/internal/infrastructure/storage/postgres/catalog_repo"
	"invoport/internal/infrastructure/storage/postgres/document_repo"
	"invoport/pkg/logger"
)

func main() {
	var (
		dumpPath = flag.String("dump", "", "path to the legacy SQL dump (plain, .gz or .zst)")
		dryRun   = flag.Bool("dry-run", false, "perform all work, then roll back every phase")
		verbose  = flag.Bool("verbose", false, "print per-skip reasons in the report")
		phase    = flag.String("phase", "all", "phase to run: all, tax_rates, families, units, products, clients, invoices, invoice_items")
		idMaps   = flag.String("id-maps", "", "JSON file with legacy→new id maps from an earlier run, for single-phase runs")
		saveIDs  = flag.String("save-id-maps", "", "write the id maps of a committed full import to this JSON file")
		verify   = flag.Bool("verify", false, "run the read-only verification pass (no import)")
		purge    = flag.Bool("purge", false, "delete previously imported rows before anything else")
	)
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log = log.WithComponent("importer")

	ctx := logger.WithLogger(context.Background(), log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to ensure schema", "error", err)
	}

	userID, err := postgres.EnsureImportUser(ctx, pool)
	if err != nil {
		log.Fatalw("failed to ensure import user", "error", err)
	}

	txm := postgres.NewTxManager(pool)
	repos := importer.Repos{
		Clients:  catalog_repo.NewClientRepo(txm),
		Products: catalog_repo.NewProductRepo(txm),
		Families: catalog_repo.NewFamilyRepo(txm),
		Units:    catalog_repo.NewUnitRepo(txm),
		TaxRates: catalog_repo.NewTaxRateRepo(txm),
		Invoices: document_repo.NewInvoiceRepo(txm),
	}

	if *purge {
		if err := purgeAll(ctx, txm, repos); err != nil {
			log.Fatalw("purge failed", "error", err)
		}
	}

	if *verify {
		report, err := importer.NewVerifier(txm, repos.Invoices).Verify(ctx)
		if err != nil {
			log.Fatalw("verification failed", "error", err)
		}
		printJSON(report)
		return
	}

	if *dumpPath == "" {
		if *purge {
			return
		}
		log.Fatal("-dump is required unless -verify or -purge is given")
	}

	im := importer.New(txm, repos, userID)
	r := dump.NewReader(*dumpPath)

	if *verbose {
		printDumpCounts(log, r)
	}

	if *phase == "all" {
		result := im.CompleteImport(ctx, r, *dryRun)
		printResult(result, *verbose)
		if result.Aborted != "" {
			os.Exit(1)
		}
		if *saveIDs != "" && !*dryRun {
			if err := writeIDMaps(*saveIDs, result.Reports); err != nil {
				log.Fatalw("failed to save id maps", "path", *saveIDs, "error", err)
			}
		}
		return
	}

	attach, err := loadIDMaps(*idMaps)
	if err != nil {
		log.Fatalw("failed to load id maps", "path", *idMaps, "error", err)
	}

	rep, err := runSinglePhase(ctx, im, r, *phase, *dryRun, attach)
	if err != nil {
		log.Fatalw("phase failed", "phase", *phase, "error", err)
	}
	printReport(rep, *verbose)
}

// printDumpCounts prints per-table tuple counts before any phase runs,
// a quick sanity check that the dump holds what the operator expects.
func printDumpCounts(log *logger.Logger, r *dump.Reader) {
	for _, table := range importer.LegacyTables() {
		n, err := r.Count(table)
		if err != nil {
			log.Fatalw("failed to read dump", "table", table, "error", err)
		}
		fmt.Printf("%-18s %d tuples\n", table, n)
	}
}

// loadIDMaps reads per-entity legacy→new id maps written by an earlier
// committed run, so a standalone phase can resolve references to rows
// already in the database.
func loadIDMaps(path string) (map[identity.Kind]identity.Map, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	maps := make(map[identity.Kind]identity.Map)
	if err := json.Unmarshal(data, &maps); err != nil {
		return nil, fmt.Errorf("parse id maps %s: %w", path, err)
	}
	return maps, nil
}

// writeIDMaps persists the id maps of a committed run, keyed by phase
// name. The item phase records no map and is omitted.
func writeIDMaps(path string, reports []*importer.PhaseReport) error {
	maps := make(map[identity.Kind]identity.Map)
	for _, rep := range reports {
		if len(rep.IDMap) > 0 {
			maps[identity.Kind(rep.Phase)] = rep.IDMap
		}
	}
	data, err := json.MarshalIndent(maps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runSinglePhase runs one phase, resolving references to earlier phases
// through the attached id maps when given. Without maps, unresolved
// references follow their usual policy (skip or NULL), so bare
// single-phase runs suit catalogs best.
func runSinglePhase(ctx context.Context, im *importer.Importer, r *dump.Reader, phase string, dryRun bool, attach map[identity.Kind]identity.Map) (*importer.PhaseReport, error) {
	sess := identity.NewSession()
	for kind, m := range attach {
		sess.Attach(kind, m)
	}
	switch phase {
	case "tax_rates":
		return im.ImportTaxRates(ctx, r, sess, dryRun)
	case "families":
		return im.ImportFamilies(ctx, r, sess, dryRun)
	case "units":
		return im.ImportUnits(ctx, r, sess, dryRun)
	case "products":
		return im.ImportProducts(ctx, r, sess, dryRun)
	case "clients":
		return im.ImportClients(ctx, r, sess, dryRun)
	case "invoices":
		return im.ImportInvoices(ctx, r, sess, dryRun)
	case "invoice_items":
		return im.ImportInvoiceItems(ctx, r, sess, dryRun)
	default:
		return nil, fmt.Errorf("unknown phase %q", phase)
	}
}

// purgeAll deletes imported rows in reverse dependency order, one
// transaction for everything.
func purgeAll(ctx context.Context, txm *postgres.TxManager, repos importer.Repos) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		type purger struct {
			name string
			fn   func(context.Context) (int64, error)
		}
		order := []purger{
			{"invoices", repos.Invoices.Purge},
			{"products", repos.Products.Purge},
			{"clients", repos.Clients.Purge},
			{"tax_rates", repos.TaxRates.Purge},
			{"families", repos.Families.Purge},
			{"units", repos.Units.Purge},
		}
		for _, p := range order {
			n, err := p.fn(ctx)
			if err != nil {
				return fmt.Errorf("purge %s: %w", p.name, err)
			}
			logger.Info(ctx, "purged", "entity", p.name, "rows", n)
		}
		return nil
	})
}

func printResult(result *importer.CompleteResult, verbose bool) {
	for _, rep := range result.Reports {
		printReport(rep, verbose)
	}
	if result.Aborted != "" {
		fmt.Printf("import aborted in phase %s\n", result.Aborted)
	}
}

func printReport(rep *importer.PhaseReport, verbose bool) {
	fmt.Printf("%-14s seen=%d imported=%d skipped=%d warnings=%d\n",
		rep.Phase, rep.Seen, rep.Imported, rep.Skipped, rep.Warnings)
	if verbose {
		for _, reason := range rep.SkipReasons {
			fmt.Printf("  skip: %s\n", reason)
		}
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
