package billing

import (
	"context"

	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// PreviewInvoice runs the tax engine over prospective items and returns the
// computed lines and totals without persisting anything or touching stock.
// The frontend calls this on every cart change.
func (uc *CreateInvoiceUseCase) PreviewInvoice(ctx context.Context, companyID string, in dto.PreviewInvoiceRequest) (*dto.PreviewInvoiceResponse, error) {
	mode := tax.TaxMode(in.TaxMode)
	if mode != tax.TaxModeExclusive && mode != tax.TaxModeInclusive {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	productsByID := make(map[string]*entity.Product)
	for _, item := range in.Items {
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := productsByID[item.ProductID]; ok {
			continue
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

	resp := &dto.PreviewInvoiceResponse{
		NetTotal:    totals.Net,
		TaxTotal:    totals.Tax,
		ExciseTotal: totals.Excise,
		GrandTotal:  totals.Grand,
		Lines:       make([]dto.PreviewLineResponse, 0, len(computed)),
	}
	for _, cl := range computed {
		resp.Lines = append(resp.Lines, dto.PreviewLineResponse{
			ProductID:    cl.Product.ID,
			Quantity:     cl.Quantity,
			UnitPrice:    cl.UnitPrice,
			DisplayRate:  cl.DisplayRate,
			Subtotal:     cl.Result.Subtotal,
			Discount:     cl.Result.DiscountAmount,
			TaxAmount:    cl.Result.TaxAmount,
			ExciseAmount: cl.exciseAmount(),
			Total:        cl.Result.Total,
		})
	}
	return resp, nil
}
