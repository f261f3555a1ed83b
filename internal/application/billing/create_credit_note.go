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
)

// CreateCreditNoteUseCase reverses all or part of a fiscalized invoice.
// Credited lines inherit the original pricing; restocked lines register an
// inventory IN in the same transaction.
type CreateCreditNoteUseCase struct {
	txRunner       BillingTxRunner
	inventoryUC    InventoryUseCase
	invoiceRepo    repository.InvoiceRepository
	creditNoteRepo repository.CreditNoteRepository
	productRepo    repository.ProductRepository
	warehouseRepo  repository.WarehouseRepository
	orchestrator   *EFRISOrchestrator
}

func NewCreateCreditNoteUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	orchestrator *EFRISOrchestrator,
) *CreateCreditNoteUseCase {
	return &CreateCreditNoteUseCase{
		txRunner:       txRunner,
		inventoryUC:    inventoryUC,
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		orchestrator:   orchestrator,
	}
}

// inheritedRate reconstructs the sale-time tax rate from the persisted line
// amounts instead of re-resolving the rate id. A rate edited after the sale
// can therefore never change what a credit note reverses, and a flat
// (fixed-amount) tax is prorated over the credited share of the line.
func inheritedRate(line *entity.InvoiceLine) *tax.ResolvedRate {
	if line.TaxAmount.IsZero() || line.Subtotal.IsZero() {
		return nil
	}
	return &tax.ResolvedRate{
		Kind:    tax.RatePercentage,
		Percent: line.TaxAmount.Div(line.Subtotal).Mul(decimal.NewFromInt(100)),
	}
}

// inheritedDiscountPercent converts the original flat discount into the
// percentage it represented, so partial credits carry the discount
// proportionally.
func inheritedDiscountPercent(line *entity.InvoiceLine) decimal.Decimal {
	gross := line.Quantity.Mul(line.UnitPrice)
	if line.Discount.IsZero() || gross.IsZero() {
		return decimal.Zero
	}
	return line.Discount.Div(gross).Mul(decimal.NewFromInt(100))
}

// CreateCreditNote validates the request against the original invoice,
// prorates the credited amounts and persists the note. An empty Lines slice
// credits the entire invoice. Only one credit note may reference an invoice.
func (uc *CreateCreditNoteUseCase) CreateCreditNote(ctx context.Context, companyID, userID string, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	if !efrisReasonValid(in.ReasonCode) {
		return nil, domain.ErrInvalidInput
	}
	if in.ReasonCode == entity.CreditReasonOther && in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	inv, err := uc.invoiceRepo.GetByID(in.OriginalInvoiceID)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if inv.EFRISStatus != entity.EFRISStatusAccepted {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.creditNoteRepo.ExistsForInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}

	origLines, err := uc.invoiceRepo.GetLinesByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	origByID := make(map[string]*entity.InvoiceLine, len(origLines))
	for _, l := range origLines {
		origByID[l.ID] = l
	}

	mode := tax.TaxMode(inv.TaxMode)

	type pendingLine struct {
		orig   *entity.InvoiceLine
		credit tax.CreditLine
	}
	var pending []pendingLine

	if len(in.Lines) == 0 {
		// Full credit: every line, full quantity, no restock.
		sources := make([]tax.CreditSource, 0, len(origLines))
		for _, l := range origLines {
			sources = append(sources, tax.CreditSource{
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				TaxRateID: l.TaxRateID,
				Rate:      inheritedRate(l),
				Mode:      mode,
			})
		}
		credits := tax.CreditEntireInvoice(sources)
		if len(credits) != len(origLines) {
			return nil, domain.ErrInvalidInput
		}
		for i, cl := range credits {
			pending = append(pending, pendingLine{orig: origLines[i], credit: cl})
		}
	} else {
		for i, item := range in.Lines {
			orig := origByID[item.InvoiceLineID]
			if orig == nil {
				return nil, domain.ErrNotFound
			}
			src := tax.CreditSource{
				Quantity:  orig.Quantity,
				UnitPrice: orig.UnitPrice,
				TaxRateID: orig.TaxRateID,
				Rate:      inheritedRate(orig),
				Mode:      mode,
			}
			cl, err := tax.BuildCreditLine(src, item.Quantity)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			cl.Restock = item.Restock
			cl.WarehouseID = item.WarehouseID
			if cl.Restock && cl.WarehouseID == "" {
				cl.WarehouseID = inv.WarehouseID
			}
			pending = append(pending, pendingLine{orig: orig, credit: cl})
		}
	}

	if len(pending) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, p := range pending {
		if p.credit.Restock {
			wh, _ := uc.warehouseRepo.GetByID(p.credit.WarehouseID)
			if wh == nil || wh.CompanyID != companyID {
				return nil, domain.ErrNotFound
			}
		}
	}

	now := time.Now()
	noteID := uuid.New().String()
	note := &entity.CreditNote{
		ID:                noteID,
		CompanyID:         companyID,
		CustomerID:        inv.CustomerID,
		OriginalInvoiceID: inv.ID,
		Number:            fmt.Sprintf("CN-%d", now.UnixNano()),
		Date:              now,
		Currency:          inv.Currency,
		TaxMode:           inv.TaxMode,
		ReasonCode:        in.ReasonCode,
		Reason:            in.Reason,
		EFRISStatus:       entity.EFRISStatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var noteLines []*entity.CreditNoteLine
	for i, p := range pending {
		result, err := tax.ComputeLine(tax.LineParams{
			Quantity:     p.credit.Quantity,
			UnitPrice:    p.credit.UnitPrice,
			Rate:         p.credit.Rate,
			Mode:         mode,
			Discount:     inheritedDiscountPercent(p.orig),
			DiscountType: tax.DiscountPercentage,
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		line := &entity.CreditNoteLine{
			ID:            uuid.New().String(),
			CreditNoteID:  noteID,
			InvoiceLineID: p.orig.ID,
			ProductID:     p.orig.ProductID,
			OriginalQty:   p.credit.OriginalQty,
			Quantity:      p.credit.Quantity,
			UnitPrice:     p.credit.UnitPrice,
			TaxRateID:     p.credit.TaxRateID,
			Subtotal:      result.Subtotal,
			TaxAmount:     result.TaxAmount,
			Total:         result.Total,
			Restock:       p.credit.Restock,
			WarehouseID:   p.credit.WarehouseID,
		}
		note.NetTotal = note.NetTotal.Add(line.Subtotal)
		note.TaxTotal = note.TaxTotal.Add(line.TaxAmount)
		note.GrandTotal = note.GrandTotal.Add(line.Total)
		// Excise prorates linearly with quantity.
		if p.orig.ExciseAmount.IsPositive() && p.orig.Quantity.IsPositive() {
			share := p.orig.ExciseAmount.Mul(p.credit.Quantity).Div(p.orig.Quantity).Round(2)
			note.ExciseTotal = note.ExciseTotal.Add(share)
		}
		noteLines = append(noteLines, line)
	}

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		_ repository.InvoiceRepository,
		creditNoteRepo repository.CreditNoteRepository,
	) error {
		if err := creditNoteRepo.Create(note); err != nil {
			return err
		}
		for _, line := range noteLines {
			if err := creditNoteRepo.CreateLine(line); err != nil {
				return err
			}
			if !line.Restock {
				continue
			}
			product, err := uc.productRepo.GetByID(line.ProductID)
			if err != nil || product == nil {
				return domain.ErrNotFound
			}
			if err := uc.inventoryUC.RegisterINInTx(
				ctx, movRepo, stockRepo,
				product,
				line.WarehouseID, userID,
				line.Quantity,
				now,
				noteID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.orchestrator != nil {
		uc.orchestrator.ProcessCreditNoteAsync(note.ID)
	}

	return toCreditNoteResponse(note, noteLines), nil
}

// GetCreditNote returns a credit note with its lines.
func (uc *CreateCreditNoteUseCase) GetCreditNote(ctx context.Context, companyID, id string) (*dto.CreditNoteResponse, error) {
	note, err := uc.creditNoteRepo.GetByID(id)
	if err != nil || note == nil {
		return nil, domain.ErrNotFound
	}
	if note.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.creditNoteRepo.GetLinesByCreditNoteID(id)
	if err != nil {
		return nil, err
	}
	return toCreditNoteResponse(note, lines), nil
}

// ListCreditNotes returns the company's credit notes, newest first.
func (uc *CreateCreditNoteUseCase) ListCreditNotes(ctx context.Context, companyID string, page dto.PageRequest) (*dto.PageResponse[dto.CreditNoteResponse], error) {
	page.Normalize()
	list, err := uc.creditNoteRepo.ListByCompany(companyID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.CreditNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *toCreditNoteResponse(n, nil))
	}
	return &dto.PageResponse[dto.CreditNoteResponse]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    len(items),
	}, nil
}

func efrisReasonValid(code string) bool {
	switch code {
	case entity.CreditReasonExpiryOrDamage,
		entity.CreditReasonCancellation,
		entity.CreditReasonWrongAmount,
		entity.CreditReasonWaiveOff,
		entity.CreditReasonOther:
		return true
	}
	return false
}

func toCreditNoteResponse(note *entity.CreditNote, lines []*entity.CreditNoteLine) *dto.CreditNoteResponse {
	resp := &dto.CreditNoteResponse{
		ID:                note.ID,
		Number:            note.Number,
		OriginalInvoiceID: note.OriginalInvoiceID,
		ReasonCode:        note.ReasonCode,
		NetTotal:          note.NetTotal,
		TaxTotal:          note.TaxTotal,
		ExciseTotal:       note.ExciseTotal,
		GrandTotal:        note.GrandTotal,
		EFRISStatus:       note.EFRISStatus,
		CreatedAt:         note.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.CreditNoteLineResponse{
			ID:            l.ID,
			InvoiceLineID: l.InvoiceLineID,
			ProductID:     l.ProductID,
			OriginalQty:   l.OriginalQty,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal,
			TaxAmount:     l.TaxAmount,
			Total:         l.Total,
			Restock:       l.Restock,
		})
	}
	return resp
}
