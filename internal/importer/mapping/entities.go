package mapping

import (
	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/client"
	"invoport/internal/domain/catalogs/family"
	"invoport/internal/domain/catalogs/product"
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/domain/catalogs/unit"
	"invoport/internal/domain/documents/invoice"
	"invoport/internal/importer/dump"
)

// Static mapping descriptors, one per legacy table. The name/description
// override list (KeepEmpty) is encoded here, not discovered at runtime.
var (
	TaxRateMapping = EntityMapping{
		Entity: "tax_rate",
		Rules: []Rule{
			{Legacy: "tax_rate_name", Target: "name", Kind: Text, KeepEmpty: true},
			{Legacy: "tax_rate_percent", Target: "percent", Kind: Decimal},
		},
	}

	FamilyMapping = EntityMapping{
		Entity: "family",
		Rules: []Rule{
			{Legacy: "family_name", Target: "name", Kind: Text, KeepEmpty: true},
		},
	}

	UnitMapping = EntityMapping{
		Entity: "unit",
		Rules: []Rule{
			{Legacy: "unit_name", Target: "name", Kind: Text, KeepEmpty: true},
			{Legacy: "unit_name_plrl", Target: "plural_name", Kind: Text},
		},
	}

	ProductMapping = EntityMapping{
		Entity: "product",
		Rules: []Rule{
			{Legacy: "product_name", Target: "name", Kind: Text, KeepEmpty: true},
			{Legacy: "product_description", Target: "description", Kind: Text, KeepEmpty: true},
			{Legacy: "product_sku", Target: "sku", Kind: Text},
			{Legacy: "product_price", Target: "price", Kind: Decimal},
			{Legacy: "purchase_price", Target: "purchase_price", Kind: Decimal},
			{Legacy: "provider_name", Target: "provider_name", Kind: Text},
		},
	}

	ClientMapping = EntityMapping{
		Entity: "client",
		Rules: []Rule{
			{Legacy: "client_name", Target: "name", Kind: Text, KeepEmpty: true},
			{Legacy: "client_surname", Target: "surname", Kind: Text},
			{Legacy: "client_company", Target: "company", Kind: Text},
			{Legacy: "client_gender", Target: "gender", Kind: Gender},
			{Legacy: "client_language", Target: "language", Kind: Text},
			{Legacy: "client_address_1", Target: "address_1", Kind: Text},
			{Legacy: "client_address_2", Target: "address_2", Kind: Text},
			{Legacy: "client_city", Target: "city", Kind: Text},
			{Legacy: "client_state", Target: "state", Kind: Text},
			{Legacy: "client_zip", Target: "zip", Kind: Text},
			{Legacy: "client_country", Target: "country", Kind: Text},
			{Legacy: "client_phone", Target: "phone", Kind: Text},
			{Legacy: "client_fax", Target: "fax", Kind: Text},
			{Legacy: "client_mobile", Target: "mobile", Kind: Text},
			{Legacy: "client_email", Target: "email", Kind: Text},
			{Legacy: "client_web", Target: "web", Kind: Text},
			{Legacy: "client_vat_id", Target: "vat_id", Kind: Text},
			{Legacy: "client_tax_code", Target: "tax_code", Kind: Text},
			{Legacy: "client_birthdate", Target: "birthdate", Kind: Date},
			{Legacy: "client_active", Target: "is_active", Kind: Bool},
		},
	}

	InvoiceMapping = EntityMapping{
		Entity: "invoice",
		Rules: []Rule{
			{Legacy: "invoice_number", Target: "invoice_number", Kind: Text},
			{Legacy: "invoice_status_id", Target: "status", Kind: Text},
			{Legacy: "invoice_date_created", Target: "issue_date", Kind: Date},
			{Legacy: "invoice_date_due", Target: "due_date", Kind: Date},
			{Legacy: "invoice_paid", Target: "paid_amount", Kind: Decimal},
		},
	}

	InvoiceItemMapping = EntityMapping{
		Entity: "invoice_item",
		Rules: []Rule{
			{Legacy: "item_name", Target: "name", Kind: Text, KeepEmpty: true},
			{Legacy: "item_description", Target: "description", Kind: Text, KeepEmpty: true},
			{Legacy: "item_quantity", Target: "quantity", Kind: Decimal},
			{Legacy: "item_price", Target: "price", Kind: Decimal},
			{Legacy: "item_discount_amount", Target: "discount_amount", Kind: Decimal},
			{Legacy: "item_order", Target: "sort_order", Kind: Int},
		},
	}
)

// --- entity builders ---
// Builders turn a mapped record into a domain entity. Foreign keys are
// not resolved here; the orchestrator rewrites them through the identity
// session before persisting.

// ClientFromRow builds a Client from a legacy ip_clients row.
func ClientFromRow(row dump.Row) (*client.Client, []Warning) {
	rec, warnings := ClientMapping.Apply(row)

	c := client.New(rec.Text("name"))
	c.Surname = rec.OptText("surname")
	c.Company = rec.OptText("company")
	c.Gender = rec.OptTextPtr("gender")
	c.Language = rec.OptText("language")
	c.Address1 = rec.OptText("address_1")
	c.Address2 = rec.OptText("address_2")
	c.City = rec.OptText("city")
	c.State = rec.OptText("state")
	c.Zip = rec.OptText("zip")
	c.Country = rec.OptText("country")
	c.Phone = rec.OptText("phone")
	c.Fax = rec.OptText("fax")
	c.Mobile = rec.OptText("mobile")
	c.Email = rec.OptText("email")
	c.Web = rec.OptText("web")
	c.VATID = rec.OptText("vat_id")
	c.TaxCode = rec.OptText("tax_code")
	c.Birthdate = rec.Date("birthdate")
	c.IsActive = rec.Bool("is_active")
	return c, warnings
}

// TaxRateFromRow builds a TaxRate from a legacy ip_tax_rates row.
func TaxRateFromRow(row dump.Row) (*taxrate.TaxRate, []Warning) {
	rec, warnings := TaxRateMapping.Apply(row)
	t := taxrate.New(rec.Text("name"), rec.Money("percent"))
	return t, warnings
}

// FamilyFromRow builds a Family from a legacy ip_families row.
func FamilyFromRow(row dump.Row) (*family.Family, []Warning) {
	rec, warnings := FamilyMapping.Apply(row)
	return family.New(rec.Text("name")), warnings
}

// UnitFromRow builds a Unit from a legacy ip_units row.
func UnitFromRow(row dump.Row) (*unit.Unit, []Warning) {
	rec, warnings := UnitMapping.Apply(row)
	u := unit.New(rec.Text("name"))
	u.PluralName = rec.OptText("plural_name")
	return u, warnings
}

// ProductFromRow builds a Product from a legacy ip_products row.
// SKU generation for rows without one happens in the product phase,
// where collisions can be checked against persisted rows.
func ProductFromRow(row dump.Row) (*product.Product, []Warning) {
	rec, warnings := ProductMapping.Apply(row)

	p := product.New(rec.Text("name"))
	p.Description = rec.Text("description")
	p.SKU = rec.Text("sku")
	p.Price = rec.Money("price")
	p.PurchasePrice = rec.Money("purchase_price")
	p.ProviderName = rec.OptText("provider_name")
	return p, warnings
}

// InvoiceFromRow builds an Invoice header from a legacy ip_invoices row.
// The status goes through the alias table; an unknown status is returned
// as an error so the orchestrator can skip the row.
func InvoiceFromRow(row dump.Row) (*invoice.Invoice, []Warning, error) {
	rec, warnings := InvoiceMapping.Apply(row)

	status, err := invoice.ParseStatus(rec.Text("status"))
	if err != nil {
		return nil, warnings, err
	}

	inv := invoice.New(id.Nil(), id.Nil(), rec.Text("invoice_number"))
	inv.Status = status
	if d := rec.Date("issue_date"); d != nil {
		inv.IssueDate = *d
	}
	if d := rec.Date("due_date"); d != nil {
		inv.DueDate = *d
	}
	inv.PaidAmount = rec.Money("paid_amount")
	return inv, warnings, nil
}

// InvoiceItemFromRow builds an invoice line from a legacy
// ip_invoice_items row. Derived amounts are computed afterwards by the
// totals calculator.
func InvoiceItemFromRow(row dump.Row) (*invoice.Item, []Warning) {
	rec, warnings := InvoiceItemMapping.Apply(row)

	item := &invoice.Item{
		Name:           rec.Text("name"),
		Description:    rec.Text("description"),
		Quantity:       rec.Money("quantity"),
		Price:          rec.Money("price"),
		DiscountAmount: rec.Money("discount_amount"),
		SortOrder:      rec.Int("sort_order"),
	}
	return item, warnings
}
