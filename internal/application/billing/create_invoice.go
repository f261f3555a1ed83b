package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
	"github.com/kmuwanga/billing-api/internal/domain/tax"
	"github.com/kmuwanga/billing-api/pkg/efris"
)

// CreateInvoiceUseCase creates an invoice and deducts inventory in a single
// transaction, then hands the saved document to the EFRIS orchestrator.
type CreateInvoiceUseCase struct {
	txRunner      BillingTxRunner
	inventoryUC   InventoryUseCase
	customerRepo  repository.CustomerRepository
	companyRepo   repository.CompanyRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	invoiceRepo   repository.InvoiceRepository
	taxRateRepo   repository.TaxRateRepository
	orchestrator  *EFRISOrchestrator // nil leaves invoices in DRAFT
}

func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	invoiceRepo repository.InvoiceRepository,
	taxRateRepo repository.TaxRateRepository,
	orchestrator *EFRISOrchestrator,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:      txRunner,
		inventoryUC:   inventoryUC,
		customerRepo:  customerRepo,
		companyRepo:   companyRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		invoiceRepo:   invoiceRepo,
		taxRateRepo:   taxRateRepo,
		orchestrator:  orchestrator,
	}
}

// CreateInvoice validates the request, runs the tax engine over the items,
// registers an inventory OUT per line and persists header plus lines, all
// in one transaction. The invoice is saved in DRAFT and fiscalization runs
// asynchronously afterwards.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	mode := tax.TaxMode(in.TaxMode)
	if mode != tax.TaxModeExclusive && mode != tax.TaxModeInclusive {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}

	wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	// Read-only validation outside the transaction.
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
	}

	rates, err := uc.taxRateRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}

	computed, totals, err := computeDocumentLines(mode, in.Items, productsByID, rates)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = efris.CurrencyUGX
	}
	payMode := in.PayMode
	if payMode == "" {
		payMode = efris.PayModeCash
	}

	now := time.Now()
	invoiceID := uuid.New().String() // also the TransactionID on stock movements
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.CreditNoteRepository,
	) error {
		// Stock first: an insufficient-stock error rolls everything back
		// before any invoice row exists.
		for _, cl := range computed {
			if err := uc.inventoryUC.RegisterOUTInTx(
				ctx, movRepo, stockRepo,
				cl.Product,
				in.WarehouseID, userID,
				cl.Quantity,
				now,
				invoiceID,
			); err != nil {
				return err
			}
		}

		inv = &entity.Invoice{
			ID:          invoiceID,
			CompanyID:   companyID,
			CustomerID:  in.CustomerID,
			WarehouseID: in.WarehouseID,
			Number:      fmt.Sprintf("INV-%d", now.UnixNano()),
			Date:        now,
			Currency:    currency,
			TaxMode:     string(mode),
			PayMode:     payMode,
			Remarks:     in.Remarks,
			NetTotal:    totals.Net,
			TaxTotal:    totals.Tax,
			ExciseTotal: totals.Excise,
			GrandTotal:  totals.Grand,
			EFRISStatus: entity.EFRISStatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}

		for _, cl := range computed {
			line := &entity.InvoiceLine{
				ID:             uuid.New().String(),
				InvoiceID:      inv.ID,
				ProductID:      cl.Product.ID,
				Quantity:       cl.Quantity,
				UnitPrice:      cl.UnitPrice,
				DisplayRate:    cl.DisplayRate,
				Discount:       cl.Result.DiscountAmount,
				DiscountType:   cl.DiscountType,
				TaxRateID:      cl.TaxRateID,
				Subtotal:       cl.Result.Subtotal,
				TaxAmount:      cl.Result.TaxAmount,
				Total:          cl.Result.Total,
				ExciseDutyCode: cl.Product.ExciseDutyCode,
				ExciseRate:     cl.Product.ExciseRate,
				ExciseUnit:     cl.Product.ExciseUnit,
				ExciseAmount:   cl.exciseAmount(),
			}
			if err := invoiceRepo.CreateLine(line); err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.orchestrator != nil {
		uc.orchestrator.ProcessInvoiceAsync(inv.ID)
	}

	return uc.toResponse(inv, lines, productsByID), nil
}

// GetInvoice returns an invoice with its full line detail.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[string]*entity.Product)
	for _, l := range lines {
		if _, ok := productsByID[l.ProductID]; ok {
			continue
		}
		if p, err := uc.productRepo.GetByID(l.ProductID); err == nil && p != nil {
			productsByID[l.ProductID] = p
		}
	}
	return uc.toResponse(inv, lines, productsByID), nil
}

// ListInvoices returns the company's invoices, newest first, without lines.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, companyID string, page dto.PageRequest) (*dto.PageResponse[dto.InvoiceResponse], error) {
	page.Normalize()
	list, err := uc.invoiceRepo.ListByCompany(companyID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *uc.toResponse(inv, nil, nil))
	}
	return &dto.PageResponse[dto.InvoiceResponse]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    len(items),
	}, nil
}

// GetEFRISStatus is the light polling query for the fiscalization state.
func (uc *CreateInvoiceUseCase) GetEFRISStatus(ctx context.Context, companyID, id string) (*dto.EFRISStatusResponse, error) {
	inv, err := uc.invoiceRepo.GetEFRISStatus(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := &dto.EFRISStatusResponse{
		InvoiceID: inv.ID,
		Status:    inv.EFRISStatus,
		FDN:       inv.FDN,
	}
	if inv.EFRISErrors != "" {
		resp.Errors = []string{inv.EFRISErrors}
	}
	return resp, nil
}

func (uc *CreateInvoiceUseCase) toResponse(inv *entity.Invoice, lines []*entity.InvoiceLine, productsByID map[string]*entity.Product) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		CompanyID:   inv.CompanyID,
		CustomerID:  inv.CustomerID,
		WarehouseID: inv.WarehouseID,
		TaxMode:     inv.TaxMode,
		Currency:    inv.Currency,
		NetTotal:    inv.NetTotal,
		TaxTotal:    inv.TaxTotal,
		ExciseTotal: inv.ExciseTotal,
		GrandTotal:  inv.GrandTotal,
		EFRISStatus: inv.EFRISStatus,
		FDN:         inv.FDN,
		VerifyCode:  inv.VerifyCode,
		QRCode:      inv.QRCode,
		CreatedAt:   inv.CreatedAt,
	}
	for _, l := range lines {
		name := ""
		if p := productsByID[l.ProductID]; p != nil {
			name = p.Name
		}
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			ProductName:  name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			DisplayRate:  l.DisplayRate,
			Discount:     l.Discount,
			DiscountType: l.DiscountType,
			TaxRateID:    l.TaxRateID,
			Subtotal:     l.Subtotal,
			TaxAmount:    l.TaxAmount,
			ExciseAmount: l.ExciseAmount,
			Total:        l.Total,
		})
	}
	return resp
}
