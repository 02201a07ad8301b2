package importer

import (
	"context"
	"fmt"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/product"
	"invoport/internal/importer/dump"
	"invoport/internal/importer/identity"
	"invoport/internal/importer/mapping"
)

// ImportTaxRates imports ip_tax_rates. A rate whose name already exists
// is skipped, but its legacy id is mapped onto the existing rate so
// products and items referencing it still resolve.
func (im *Importer) ImportTaxRates(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("tax_rates")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyTaxRates, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["tax_rate_id"])
			if !ok {
				rep.skip(ctx, legacyTaxRates, 0, "missing or invalid legacy id")
				return nil
			}

			rate, warnings := mapping.TaxRateFromRow(row)
			rep.warn(ctx, legacyTaxRates, legacyID, warnings)

			if err := rate.Validate(ctx); err != nil {
				rep.skip(ctx, legacyTaxRates, legacyID, err.Error())
				return nil
			}

			existing, err := im.repos.TaxRates.FindByName(ctx, rate.Name)
			switch {
			case err == nil:
				sess.Record(identity.TaxRates, legacyID, existing.ID)
				im.taxPercents[existing.ID] = existing.Percent
				rep.skip(ctx, legacyTaxRates, legacyID,
					fmt.Sprintf("duplicate name %q, mapped to existing rate", rate.Name))
				return nil
			case !apperror.IsNotFound(err):
				return err
			}

			if err := im.repos.TaxRates.Create(ctx, rate); err != nil {
				if apperror.IsRowSkip(err) {
					rep.skip(ctx, legacyTaxRates, legacyID, err.Error())
					return nil
				}
				return err
			}
			sess.Record(identity.TaxRates, legacyID, rate.ID)
			im.taxPercents[rate.ID] = rate.Percent
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.TaxRates)
	}
	return rep, nil
}

// ImportFamilies imports ip_families (product groupings).
func (im *Importer) ImportFamilies(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("families")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyFamilies, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["family_id"])
			if !ok {
				rep.skip(ctx, legacyFamilies, 0, "missing or invalid legacy id")
				return nil
			}

			fam, warnings := mapping.FamilyFromRow(row)
			rep.warn(ctx, legacyFamilies, legacyID, warnings)

			if err := fam.Validate(ctx); err != nil {
				rep.skip(ctx, legacyFamilies, legacyID, err.Error())
				return nil
			}

			existing, err := im.repos.Families.FindByName(ctx, fam.Name)
			switch {
			case err == nil:
				sess.Record(identity.Families, legacyID, existing.ID)
				rep.skip(ctx, legacyFamilies, legacyID,
					fmt.Sprintf("duplicate name %q, mapped to existing family", fam.Name))
				return nil
			case !apperror.IsNotFound(err):
				return err
			}

			if err := im.repos.Families.Create(ctx, fam); err != nil {
				if apperror.IsRowSkip(err) {
					rep.skip(ctx, legacyFamilies, legacyID, err.Error())
					return nil
				}
				return err
			}
			sess.Record(identity.Families, legacyID, fam.ID)
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.Families)
	}
	return rep, nil
}

// ImportUnits imports ip_units (sales units).
func (im *Importer) ImportUnits(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("units")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyUnits, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["unit_id"])
			if !ok {
				rep.skip(ctx, legacyUnits, 0, "missing or invalid legacy id")
				return nil
			}

			u, warnings := mapping.UnitFromRow(row)
			rep.warn(ctx, legacyUnits, legacyID, warnings)

			if err := u.Validate(ctx); err != nil {
				rep.skip(ctx, legacyUnits, legacyID, err.Error())
				return nil
			}

			existing, err := im.repos.Units.FindByName(ctx, u.Name)
			switch {
			case err == nil:
				sess.Record(identity.Units, legacyID, existing.ID)
				rep.skip(ctx, legacyUnits, legacyID,
					fmt.Sprintf("duplicate name %q, mapped to existing unit", u.Name))
				return nil
			case !apperror.IsNotFound(err):
				return err
			}

			if err := im.repos.Units.Create(ctx, u); err != nil {
				if apperror.IsRowSkip(err) {
					rep.skip(ctx, legacyUnits, legacyID, err.Error())
					return nil
				}
				return err
			}
			sess.Record(identity.Units, legacyID, u.ID)
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.Units)
	}
	return rep, nil
}

// ImportProducts imports ip_products. Family, unit and tax-rate
// references are optional: an unresolved one degrades to NULL with a
// warning. Missing SKUs are generated, colliding ones suffixed.
func (im *Importer) ImportProducts(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("products")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyProducts, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["product_id"])
			if !ok {
				rep.skip(ctx, legacyProducts, 0, "missing or invalid legacy id")
				return nil
			}

			p, warnings := mapping.ProductFromRow(row)
			rep.warn(ctx, legacyProducts, legacyID, warnings)

			im.resolveOptionalRef(ctx, rep, sess, identity.Families,
				legacyProducts, legacyID, "family_id", row["family_id"], &p.FamilyID)
			im.resolveOptionalRef(ctx, rep, sess, identity.Units,
				legacyProducts, legacyID, "unit_id", row["unit_id"], &p.UnitID)
			im.resolveOptionalRef(ctx, rep, sess, identity.TaxRates,
				legacyProducts, legacyID, "tax_rate_id", row["tax_rate_id"], &p.TaxRateID)

			var err error
			if p.SKU == "" {
				p.SKU, err = product.GenerateSKU(ctx, im.repos.Products, p.Name)
			} else {
				p.SKU, err = product.EnsureUniqueSKU(ctx, im.repos.Products, p.SKU)
			}
			if err != nil {
				return err
			}

			if err := p.Validate(ctx); err != nil {
				rep.skip(ctx, legacyProducts, legacyID, err.Error())
				return nil
			}

			if err := im.repos.Products.Create(ctx, p); err != nil {
				if apperror.IsRowSkip(err) {
					rep.skip(ctx, legacyProducts, legacyID, err.Error())
					return nil
				}
				return err
			}
			sess.Record(identity.Products, legacyID, p.ID)
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.Products)
	}
	return rep, nil
}

// ImportClients imports ip_clients. Clients carry no unique keys beyond
// their ids, so every valid row imports.
func (im *Importer) ImportClients(ctx context.Context, r *dump.Reader, sess *identity.Session, dryRun bool) (*PhaseReport, error) {
	rep := newPhaseReport("clients")

	err := im.runPhase(ctx, rep.Phase, dryRun, func(ctx context.Context) error {
		return r.Scan(legacyClients, func(row dump.Row) error {
			rep.Seen++

			legacyID, ok := mapping.ParseLegacyID(row["client_id"])
			if !ok {
				rep.skip(ctx, legacyClients, 0, "missing or invalid legacy id")
				return nil
			}

			c, warnings := mapping.ClientFromRow(row)
			rep.warn(ctx, legacyClients, legacyID, warnings)

			if err := c.Validate(ctx); err != nil {
				rep.skip(ctx, legacyClients, legacyID, err.Error())
				return nil
			}

			if err := im.repos.Clients.Create(ctx, c); err != nil {
				return err
			}
			sess.Record(identity.Clients, legacyID, c.ID)
			rep.Imported++
			return nil
		})
	})
	if err != nil {
		return rep, err
	}

	if !dryRun {
		rep.IDMap = sess.Snapshot(identity.Clients)
	}
	return rep, nil
}

// resolveOptionalRef resolves a nullable legacy reference through the
// session. Legacy id 0 or an absent column means "no reference" and
// stays NULL silently; an id that cannot be resolved also degrades to
// NULL but is counted as a warning.
func (im *Importer) resolveOptionalRef(ctx context.Context, rep *PhaseReport, sess *identity.Session,
	kind identity.Kind, table string, legacyID int64, field, raw string, target **id.ID,
) {
	ref, ok := mapping.ParseLegacyID(raw)
	if !ok || ref == 0 {
		return
	}
	newID, ok := sess.Resolve(kind, ref)
	if !ok {
		rep.warnRef(ctx, table, legacyID, field, ref)
		return
	}
	*target = &newID
}
