package importer

import (
	"context"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/domain/catalogs/client"
	"invoport/internal/domain/catalogs/family"
	"invoport/internal/domain/catalogs/product"
	"invoport/internal/domain/catalogs/taxrate"
	"invoport/internal/domain/catalogs/unit"
	"invoport/internal/domain/documents/invoice"
)

// fakeTx satisfies tx.Manager and tx.ReadOnlyManager without a database.
// Rollback is not simulated; dry-run tests assert on reported counts.
type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// rollbackTx mirrors real transaction semantics over the in-memory
// repos: a nested call joins the outermost transaction, and an error
// from the outermost fn restores every repository to its prior state.
type rollbackTx struct {
	env *testEnv
}

type rollbackTxKey struct{}

func (t *rollbackTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(rollbackTxKey{}) != nil {
		return fn(ctx)
	}
	snap := t.env.snapshot()
	err := fn(context.WithValue(ctx, rollbackTxKey{}, true))
	if err != nil {
		t.env.restore(snap)
	}
	return err
}

func (t *rollbackTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.RunInTransaction(ctx, fn)
}

type fakeClientRepo struct {
	clients []*client.Client
}

func (r *fakeClientRepo) Create(_ context.Context, c *client.Client) error {
	r.clients = append(r.clients, c)
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, clientID id.ID) (*client.Client, error) {
	for _, c := range r.clients {
		if c.ID == clientID {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("clients", clientID.String())
}

func (r *fakeClientRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.clients))
	r.clients = nil
	return n, nil
}

type fakeFamilyRepo struct {
	families []*family.Family
}

func (r *fakeFamilyRepo) Create(_ context.Context, f *family.Family) error {
	r.families = append(r.families, f)
	return nil
}

func (r *fakeFamilyRepo) FindByName(_ context.Context, name string) (*family.Family, error) {
	for _, f := range r.families {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, apperror.NewNotFound("product_families", name)
}

func (r *fakeFamilyRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.families))
	r.families = nil
	return n, nil
}

type fakeUnitRepo struct {
	units []*unit.Unit
}

func (r *fakeUnitRepo) Create(_ context.Context, u *unit.Unit) error {
	r.units = append(r.units, u)
	return nil
}

func (r *fakeUnitRepo) FindByName(_ context.Context, name string) (*unit.Unit, error) {
	for _, u := range r.units {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("product_units", name)
}

func (r *fakeUnitRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.units))
	r.units = nil
	return n, nil
}

type fakeTaxRateRepo struct {
	rates []*taxrate.TaxRate

	// createErr is returned once by Create, to stand in for database
	// errors like a unique-index violation
	createErr error
}

func (r *fakeTaxRateRepo) Create(_ context.Context, rate *taxrate.TaxRate) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	r.rates = append(r.rates, rate)
	return nil
}

func (r *fakeTaxRateRepo) GetByID(_ context.Context, rateID id.ID) (*taxrate.TaxRate, error) {
	for _, rate := range r.rates {
		if rate.ID == rateID {
			return rate, nil
		}
	}
	return nil, apperror.NewNotFound("tax_rates", rateID.String())
}

func (r *fakeTaxRateRepo) FindByName(_ context.Context, name string) (*taxrate.TaxRate, error) {
	for _, rate := range r.rates {
		if rate.Name == name {
			return rate, nil
		}
	}
	return nil, apperror.NewNotFound("tax_rates", name)
}

func (r *fakeTaxRateRepo) UnsetDefault(context.Context) error {
	for _, rate := range r.rates {
		rate.IsDefault = false
	}
	return nil
}

func (r *fakeTaxRateRepo) MarkDefault(_ context.Context, rateID id.ID) error {
	for _, rate := range r.rates {
		if rate.ID == rateID {
			rate.IsDefault = true
			return nil
		}
	}
	return apperror.NewNotFound("tax_rates", rateID.String())
}

func (r *fakeTaxRateRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.rates))
	r.rates = nil
	return n, nil
}

type fakeProductRepo struct {
	products []*product.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.products = append(r.products, p)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	for _, p := range r.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("products", productID.String())
}

func (r *fakeProductRepo) SKUExists(_ context.Context, sku string) (bool, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.products))
	r.products = nil
	return n, nil
}

type fakeInvoiceRepo struct {
	invoices []*invoice.Invoice
	items    []*invoice.Item

	// clients, when set, makes Create and CreateItem enforce foreign
	// keys the way the real schema does.
	clients *fakeClientRepo
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	if r.clients != nil {
		if _, err := r.clients.GetByID(ctx, inv.ClientID); err != nil {
			return apperror.NewConflict("referenced client row does not exist").WithCause(err)
		}
	}
	r.invoices = append(r.invoices, inv)
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(_ context.Context, item *invoice.Item) error {
	if r.clients != nil {
		found := false
		for _, inv := range r.invoices {
			if inv.ID == item.InvoiceID {
				found = true
				break
			}
		}
		if !found {
			return apperror.NewConflict("referenced invoice row does not exist")
		}
	}
	r.items = append(r.items, item)
	return nil
}

func (r *fakeInvoiceRepo) UpdateTotals(_ context.Context, invoiceID id.ID, totals invoice.Totals) error {
	for _, inv := range r.invoices {
		if inv.ID == invoiceID {
			inv.Subtotal = totals.Subtotal
			inv.TaxTotal = totals.TaxTotal
			inv.DiscountAmount = totals.DiscountAmount
			inv.Total = totals.Total
			inv.Balance = totals.Balance
			return nil
		}
	}
	return apperror.NewNotFound("invoices", invoiceID.String())
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.ID == invoiceID {
			return r.withItems(inv), nil
		}
	}
	return nil, apperror.NewNotFound("invoices", invoiceID.String())
}

func (r *fakeInvoiceRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, inv := range r.invoices {
		if inv.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInvoiceRepo) VerificationCounts(context.Context) (invoice.VerificationCounts, error) {
	counts := invoice.VerificationCounts{Total: int64(len(r.invoices))}
	for _, inv := range r.invoices {
		n := len(r.itemsOf(inv.ID))
		if n > 0 {
			counts.WithItems++
		}
		if n == 0 || !inv.Total.IsZero() {
			counts.WithTotals++
		}
	}
	return counts, nil
}

func (r *fakeInvoiceRepo) ListFirstWithItems(_ context.Context, n int) ([]*invoice.Invoice, error) {
	out := make([]*invoice.Invoice, 0, n)
	for _, inv := range r.invoices {
		if len(out) == n {
			break
		}
		out = append(out, r.withItems(inv))
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Purge(context.Context) (int64, error) {
	n := int64(len(r.invoices))
	r.invoices = nil
	r.items = nil
	return n, nil
}

func (r *fakeInvoiceRepo) itemsOf(invoiceID id.ID) []invoice.Item {
	var items []invoice.Item
	for _, it := range r.items {
		if it.InvoiceID == invoiceID {
			items = append(items, *it)
		}
	}
	return items
}

func (r *fakeInvoiceRepo) withItems(inv *invoice.Invoice) *invoice.Invoice {
	clone := *inv
	clone.Items = r.itemsOf(inv.ID)
	return &clone
}

// testEnv bundles the fakes behind a Repos value.
type testEnv struct {
	clients  *fakeClientRepo
	families *fakeFamilyRepo
	units    *fakeUnitRepo
	taxRates *fakeTaxRateRepo
	products *fakeProductRepo
	invoices *fakeInvoiceRepo
	userID   id.ID
	imp      *Importer
}

func newTestEnv() *testEnv {
	env := &testEnv{
		clients:  &fakeClientRepo{},
		families: &fakeFamilyRepo{},
		units:    &fakeUnitRepo{},
		taxRates: &fakeTaxRateRepo{},
		products: &fakeProductRepo{},
		invoices: &fakeInvoiceRepo{},
		userID:   id.New(),
	}
	env.imp = New(fakeTx{}, env.repos(), env.userID)
	return env
}

// newRollbackEnv builds an env that behaves like a real database:
// transactions roll back on error and the invoice repo enforces
// foreign keys.
func newRollbackEnv() *testEnv {
	env := newTestEnv()
	env.invoices.clients = env.clients
	env.imp = New(&rollbackTx{env: env}, env.repos(), env.userID)
	return env
}

func (e *testEnv) repos() Repos {
	return Repos{
		Clients:  e.clients,
		Products: e.products,
		Families: e.families,
		Units:    e.units,
		TaxRates: e.taxRates,
		Invoices: e.invoices,
	}
}

// envState is a copy of every repo's rows, taken when a simulated
// transaction begins.
type envState struct {
	clients  []*client.Client
	families []*family.Family
	units    []*unit.Unit
	taxRates []*taxrate.TaxRate
	products []*product.Product
	invoices []*invoice.Invoice
	items    []*invoice.Item
}

func (e *testEnv) snapshot() envState {
	return envState{
		clients:  append([]*client.Client(nil), e.clients.clients...),
		families: append([]*family.Family(nil), e.families.families...),
		units:    append([]*unit.Unit(nil), e.units.units...),
		taxRates: append([]*taxrate.TaxRate(nil), e.taxRates.rates...),
		products: append([]*product.Product(nil), e.products.products...),
		invoices: append([]*invoice.Invoice(nil), e.invoices.invoices...),
		items:    append([]*invoice.Item(nil), e.invoices.items...),
	}
}

func (e *testEnv) restore(s envState) {
	e.clients.clients = s.clients
	e.families.families = s.families
	e.units.units = s.units
	e.taxRates.rates = s.taxRates
	e.products.products = s.products
	e.invoices.invoices = s.invoices
	e.invoices.items = s.items
}
