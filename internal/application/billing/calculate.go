package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/tax"
)

// computedLine is one invoice item after the tax engine has run: the
// resolved rate, the exclusive base price, the line money and, for
// excisable goods, the excise decomposition.
type computedLine struct {
	Product      *entity.Product
	TaxRateID    string
	Rate         *tax.ResolvedRate
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal // tax-exclusive base
	DisplayRate  decimal.Decimal
	Discount     decimal.Decimal
	DiscountType string
	Result       tax.LineResult
	Excise       *tax.ExciseLine
}

// documentTotals are the header aggregates over the computed lines.
type documentTotals struct {
	Net    decimal.Decimal
	Tax    decimal.Decimal
	Excise decimal.Decimal
	Grand  decimal.Decimal
}

// computeDocumentLines runs the tax engine over the request items. Entered
// prices are display prices under the document mode: in INCLUSIVE mode they
// are stripped to the exclusive base before any calculation, so tax is
// never applied twice. An entered zero price falls back to the product's
// list price, which is stored tax-exclusive and used as the base directly.
func computeDocumentLines(
	mode tax.TaxMode,
	items []dto.InvoiceItemRequest,
	productsByID map[string]*entity.Product,
	rates []entity.TaxRate,
) ([]computedLine, documentTotals, error) {
	lines := make([]computedLine, 0, len(items))
	var totals documentTotals

	for i, item := range items {
		product := productsByID[item.ProductID]

		taxRateID := item.TaxRateID
		if taxRateID == "" {
			taxRateID = product.TaxRateID
		}
		rate := tax.Resolve(taxRateID, rates)

		base := item.UnitPrice
		if base.IsZero() {
			base = product.Price
		} else if mode == tax.TaxModeInclusive {
			base = tax.FromDisplayRate(base, rate, mode, item.Quantity)
		}

		result, err := tax.ComputeLine(tax.LineParams{
			Quantity:     item.Quantity,
			UnitPrice:    base,
			Rate:         rate,
			Mode:         mode,
			Discount:     item.Discount,
			DiscountType: tax.DiscountType(item.DiscountType),
		})
		if err != nil {
			return nil, documentTotals{}, fmt.Errorf("line %d: %w", i+1, err)
		}

		cl := computedLine{
			Product:      product,
			TaxRateID:    taxRateID,
			Rate:         rate,
			Quantity:     item.Quantity,
			UnitPrice:    base,
			DisplayRate:  tax.ToDisplayRate(base, rate, mode, item.Quantity),
			Discount:     item.Discount,
			DiscountType: item.DiscountType,
			Result:       result,
		}

		if product.ExciseRate.IsPositive() && item.Quantity.IsPositive() {
			vatPercent := decimal.Zero
			if rate != nil && rate.Kind == tax.RatePercentage {
				vatPercent = rate.Percent
			}
			// The per-unit gross feeding the breakdown comes from the
			// computed line total, not the entered price: result.Total
			// already carries the discount, and the decomposition must
			// reconcile against what is actually charged.
			grossPerUnit := result.Total.Div(item.Quantity)
			excise, err := tax.ComputeExcise(grossPerUnit, item.Quantity, vatPercent, product.ExciseRate)
			if err != nil {
				return nil, documentTotals{}, fmt.Errorf("line %d: %w", i+1, err)
			}
			cl.Excise = &excise
		}

		totals.Net = totals.Net.Add(result.Subtotal)
		totals.Tax = totals.Tax.Add(result.TaxAmount)
		if cl.Excise != nil {
			totals.Excise = totals.Excise.Add(cl.Excise.ExciseTotal)
		}
		totals.Grand = totals.Grand.Add(result.Total)

		lines = append(lines, cl)
	}

	return lines, totals, nil
}

func (cl computedLine) exciseAmount() decimal.Decimal {
	if cl.Excise == nil {
		return decimal.Zero
	}
	return cl.Excise.ExciseTotal
}
