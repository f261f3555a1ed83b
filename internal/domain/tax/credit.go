package tax

import "github.com/shopspring/decimal"

// CreditSource is the slice of an original invoice line that proration
// needs: the invoiced quantity plus the pricing inputs that a credit note
// inherits verbatim. A zero Quantity marks a standalone (manual) credit
// line with no upper bound.
type CreditSource struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRateID string
	Rate      *ResolvedRate
	Mode      TaxMode
}

// CreditLine is an editable credit note line derived from an invoice line.
// Restock and WarehouseID are filled in by the caller before submission;
// the prorator only decides quantities and inherited pricing.
type CreditLine struct {
	OriginalQty decimal.Decimal
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRateID   string
	Rate        *ResolvedRate
	Mode        TaxMode
	Restock     bool
	WarehouseID string
}

// ValidateCreditQty enforces 0 < requestedQty <= originalQty for credits
// linked to an invoice line. originalQty == 0 marks a standalone credit
// line, where no upper bound applies.
func ValidateCreditQty(requestedQty, originalQty decimal.Decimal) error {
	if !requestedQty.IsPositive() {
		return &ValidationError{Field: "creditQty", Reason: "must be greater than zero"}
	}
	if originalQty.IsPositive() && requestedQty.GreaterThan(originalQty) {
		return &ValidationError{Field: "creditQty", Reason: "credit qty exceeds original qty"}
	}
	return nil
}

// BuildCreditLine derives a credit line for requestedQty units of the
// original line. Unit price, tax rate and tax mode are inherited verbatim;
// the rate is never re-resolved at credit time, so a rate change after the
// sale cannot alter what is being reversed. The result is fed through
// ComputeLine with the credited quantity for final amounts.
func BuildCreditLine(src CreditSource, requestedQty decimal.Decimal) (CreditLine, error) {
	if err := ValidateCreditQty(requestedQty, src.Quantity); err != nil {
		return CreditLine{}, err
	}
	return CreditLine{
		OriginalQty: src.Quantity,
		Quantity:    requestedQty,
		UnitPrice:   src.UnitPrice,
		TaxRateID:   src.TaxRateID,
		Rate:        src.Rate,
		Mode:        src.Mode,
	}, nil
}

// CreditEntireInvoice is the "credit everything" shortcut: one credit line
// per source line with requestedQty = originalQty. Lines with zero quantity
// are skipped (nothing to reverse).
func CreditEntireInvoice(sources []CreditSource) []CreditLine {
	lines := make([]CreditLine, 0, len(sources))
	for _, src := range sources {
		if !src.Quantity.IsPositive() {
			continue
		}
		cl, err := BuildCreditLine(src, src.Quantity)
		if err != nil {
			continue
		}
		lines = append(lines, cl)
	}
	return lines
}
