package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuwanga/billing-api/internal/application/billing"
	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes. The transaction runner just invokes the closure; what
// matters here is what the use case computes and persists, not pgx.
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    []*entity.InvoiceLine
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{}}
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

func (f *fakeInvoiceRepo) GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	for _, l := range f.lines {
		if l.InvoiceID == invoiceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) GetEFRISStatus(id string) (*entity.Invoice, error) {
	return f.invoices[id], nil
}

type fakeTxRunner struct {
	invoices *fakeInvoiceRepo
}

func (f *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
) error) error {
	return fn(nil, nil, nil, f.invoices, nil)
}

type outCall struct {
	productID   string
	warehouseID string
	quantity    decimal.Decimal
}

type fakeInventory struct {
	outs   []outCall
	outErr error
}

func (f *fakeInventory) RegisterOUTInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	warehouseID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	if f.outErr != nil {
		return f.outErr
	}
	f.outs = append(f.outs, outCall{product.ID, warehouseID, quantity})
	return nil
}

func (f *fakeInventory) RegisterINInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	product *entity.Product,
	warehouseID, userID string,
	quantity decimal.Decimal,
	now time.Time,
	transactionID string,
) error {
	return nil
}

type fakeCustomerRepo struct{ byID map[string]*entity.Customer }

func (f *fakeCustomerRepo) Create(c *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.byID[id], nil
}
func (f *fakeCustomerRepo) GetByCompanyAndTIN(companyID, tin string) (*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(id string) error { return nil }

type fakeCompanyRepo struct{ byID map[string]*entity.Company }

func (f *fakeCompanyRepo) Create(c *entity.Company) error { return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return f.byID[id], nil
}
func (f *fakeCompanyRepo) GetByTIN(tin string) (*entity.Company, error) { return nil, nil }
func (f *fakeCompanyRepo) Update(c *entity.Company) error { return nil }
func (f *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) Delete(id string) error { return nil }

type fakeProductRepo struct{ byID map[string]*entity.Product }

func (f *fakeProductRepo) Create(p *entity.Product) error { return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.byID[id], nil
}
func (f *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (f *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	return nil
}
func (f *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Delete(id string) error { return nil }

type fakeWarehouseRepo struct{ byID map[string]*entity.Warehouse }

func (f *fakeWarehouseRepo) Create(w *entity.Warehouse) error { return nil }
func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.byID[id], nil
}
func (f *fakeWarehouseRepo) Update(w *entity.Warehouse) error { return nil }
func (f *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (f *fakeWarehouseRepo) Delete(id string) error { return nil }

type fakeTaxRateRepo struct{ rates []entity.TaxRate }

func (f *fakeTaxRateRepo) Create(r *entity.TaxRate) error { return nil }
func (f *fakeTaxRateRepo) GetByID(id string) (*entity.TaxRate, error) {
	for i := range f.rates {
		if f.rates[i].ID == id {
			return &f.rates[i], nil
		}
	}
	return nil, nil
}
func (f *fakeTaxRateRepo) ListByCompany(companyID string) ([]entity.TaxRate, error) {
	return f.rates, nil
}
func (f *fakeTaxRateRepo) Update(r *entity.TaxRate) error { return nil }
func (f *fakeTaxRateRepo) Delete(id string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: company co-1 with VAT 18%, two products (one taxed, one not),
// one warehouse, one customer. Orchestrator is nil, so invoices stay DRAFT.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *billing.CreateInvoiceUseCase
	invoices *fakeInvoiceRepo
	stock    *fakeInventory
}

func newFixture() *fixture {
	invoices := newFakeInvoiceRepo()
	stock := &fakeInventory{}
	uc := billing.NewCreateInvoiceUseCase(
		&fakeTxRunner{invoices: invoices},
		stock,
		&fakeCustomerRepo{byID: map[string]*entity.Customer{
			"cust-1": {ID: "cust-1", CompanyID: "co-1", Name: "Walk-in"},
			"cust-9": {ID: "cust-9", CompanyID: "co-9", Name: "Other tenant"},
		}},
		&fakeCompanyRepo{byID: map[string]*entity.Company{
			"co-1": {ID: "co-1", Name: "Nile Traders", TIN: "1000023456"},
		}},
		&fakeProductRepo{byID: map[string]*entity.Product{
			"p-taxed": {ID: "p-taxed", CompanyID: "co-1", Name: "Soda", Price: d("1000"), TaxRateID: "vat18"},
			"p-plain": {ID: "p-plain", CompanyID: "co-1", Name: "Bread", Price: d("500")},
		}},
		&fakeWarehouseRepo{byID: map[string]*entity.Warehouse{
			"wh-1": {ID: "wh-1", CompanyID: "co-1", Name: "Main"},
		}},
		invoices,
		&fakeTaxRateRepo{rates: []entity.TaxRate{
			{ID: "vat18", CompanyID: "co-1", Name: "VAT 18%", CalculationType: entity.TaxCalculationPercentage, Rate: d("18")},
		}},
		nil,
	)
	return &fixture{uc: uc, invoices: invoices, stock: stock}
}

func TestCreateInvoice_PersistsComputedDocument(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.CreateInvoice(context.Background(), "co-1", "user-1", dto.CreateInvoiceRequest{
		CustomerID:  "cust-1",
		WarehouseID: "wh-1",
		TaxMode:     "EXCLUSIVE",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p-taxed", Quantity: d("2"), UnitPrice: d("1000")},
			{ProductID: "p-plain", Quantity: d("1"), UnitPrice: d("500")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	// 2*1000 at 18% plus an untaxed 500
	assert.True(t, resp.NetTotal.Equal(d("2500")), "net: %s", resp.NetTotal)
	assert.True(t, resp.TaxTotal.Equal(d("360")), "tax: %s", resp.TaxTotal)
	assert.True(t, resp.GrandTotal.Equal(d("2860")), "grand: %s", resp.GrandTotal)
	assert.Equal(t, entity.EFRISStatusDraft, resp.EFRISStatus)
	require.Len(t, resp.Lines, 2)

	saved := f.invoices.invoices[resp.ID]
	require.NotNil(t, saved)
	assert.True(t, saved.GrandTotal.Equal(d("2860")))
	assert.Len(t, f.invoices.lines, 2)

	// one stock OUT per line, tied to the invoice warehouse
	require.Len(t, f.stock.outs, 2)
	assert.Equal(t, "p-taxed", f.stock.outs[0].productID)
	assert.Equal(t, "wh-1", f.stock.outs[0].warehouseID)
	assert.True(t, f.stock.outs[0].quantity.Equal(d("2")))
}

func TestCreateInvoice_InclusivePriceIsStrippedOnce(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.CreateInvoice(context.Background(), "co-1", "user-1", dto.CreateInvoiceRequest{
		CustomerID:  "cust-1",
		WarehouseID: "wh-1",
		TaxMode:     "INCLUSIVE",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p-taxed", Quantity: d("2"), UnitPrice: d("1180")},
		},
	})
	require.NoError(t, err)

	// 1180 inclusive is a 1000 base; the document must not tax it again
	assert.True(t, resp.NetTotal.Equal(d("2000")), "net: %s", resp.NetTotal)
	assert.True(t, resp.TaxTotal.Equal(d("360")), "tax: %s", resp.TaxTotal)
	assert.True(t, resp.GrandTotal.Equal(d("2360")), "grand: %s", resp.GrandTotal)

	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].DisplayRate.Equal(d("1180")), "display: %s", resp.Lines[0].DisplayRate)
}

func TestCreateInvoice_InsufficientStockFailsWholeDocument(t *testing.T) {
	f := newFixture()
	f.stock.outErr = domain.ErrInsufficientStock

	_, err := f.uc.CreateInvoice(context.Background(), "co-1", "user-1", dto.CreateInvoiceRequest{
		CustomerID:  "cust-1",
		WarehouseID: "wh-1",
		TaxMode:     "EXCLUSIVE",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p-taxed", Quantity: d("2"), UnitPrice: d("1000")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.invoices.invoices, "no invoice row may exist after the rollback")
	assert.Empty(t, f.invoices.lines)
}

func TestCreateInvoice_ForeignCustomerIsForbidden(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateInvoice(context.Background(), "co-1", "user-1", dto.CreateInvoiceRequest{
		CustomerID:  "cust-9",
		WarehouseID: "wh-1",
		TaxMode:     "EXCLUSIVE",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p-taxed", Quantity: d("1"), UnitPrice: d("1000")},
		},
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_RejectsUnknownTaxMode(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateInvoice(context.Background(), "co-1", "user-1", dto.CreateInvoiceRequest{
		CustomerID:  "cust-1",
		WarehouseID: "wh-1",
		TaxMode:     "MIXED",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p-taxed", Quantity: d("1"), UnitPrice: d("1000")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
