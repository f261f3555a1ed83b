package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxMode says whether entered/displayed unit prices already contain VAT.
// It is a document-level setting: every line of an invoice shares one mode.
type TaxMode string

const (
	TaxModeExclusive TaxMode = "EXCLUSIVE"
	TaxModeInclusive TaxMode = "INCLUSIVE"
)

// DiscountType discriminates how LineParams.Discount is interpreted.
type DiscountType string

const (
	DiscountAmount     DiscountType = "AMOUNT"     // flat currency amount per line
	DiscountPercentage DiscountType = "PERCENTAGE" // percent of the gross subtotal
)

// ValidationError signals an input outside the calculation domain. It is
// raised before any monetary computation runs and is meant to be reported
// per line, so one bad line does not block correcting the others.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// LineParams are the inputs for one invoice line computation.
//
// UnitPrice is always the tax-exclusive base price. When Mode is INCLUSIVE
// the caller extracts it from the user-entered display price with
// FromDisplayRate before calling ComputeLine; ComputeLine itself never
// re-applies the inclusive conversion, which is what rules out double
// taxation. Mode is carried so results can be traced back to the document
// setting, it does not change the arithmetic here.
type LineParams struct {
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Rate         *ResolvedRate // nil = no tax
	Mode         TaxMode
	Discount     decimal.Decimal
	DiscountType DiscountType
}

// LineResult is the computed money for one line. Recomputed on every input
// mutation, never persisted independently of its owning line.
type LineResult struct {
	Subtotal       decimal.Decimal // quantity*unitPrice minus discount
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ComputeLine produces subtotal, tax and total for one line.
//
// Negative quantity, price or discount are rejected, as is a percentage
// discount above 100. A flat discount larger than the gross subtotal is
// clamped to it instead of rejected; that asymmetry is the business rule
// (the cashier may zero a line but never drive it negative).
func ComputeLine(p LineParams) (LineResult, error) {
	if p.Quantity.IsNegative() {
		return LineResult{}, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if p.UnitPrice.IsNegative() {
		return LineResult{}, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if p.Discount.IsNegative() {
		return LineResult{}, &ValidationError{Field: "discount", Reason: "must not be negative"}
	}

	gross := p.Quantity.Mul(p.UnitPrice)

	var discountAmount decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		if p.Discount.GreaterThan(hundred) {
			return LineResult{}, &ValidationError{Field: "discount", Reason: "percentage must not exceed 100"}
		}
		discountAmount = gross.Mul(p.Discount).Div(hundred)
	case DiscountAmount, "":
		discountAmount = p.Discount
	default:
		return LineResult{}, &ValidationError{Field: "discountType", Reason: fmt.Sprintf("unknown type %q", p.DiscountType)}
	}
	// Business clamp: a discount can zero the line but never exceed it.
	if discountAmount.GreaterThan(gross) {
		discountAmount = gross
	}

	net := gross.Sub(discountAmount)

	var taxAmount decimal.Decimal
	if p.Rate != nil {
		switch p.Rate.Kind {
		case RatePercentage:
			taxAmount = net.Mul(p.Rate.Percent).Div(hundred)
		case RateFixedAmount:
			// Flat per-line charge: not scaled by quantity, not reduced by
			// the discount.
			taxAmount = p.Rate.Amount
		default:
			return LineResult{}, ErrUnknownRateKind
		}
	}

	return LineResult{
		Subtotal:       net.Round(2),
		DiscountAmount: discountAmount.Round(2),
		TaxAmount:      taxAmount.Round(2),
		Total:          net.Add(taxAmount).Round(2),
	}, nil
}

// ToDisplayRate projects the stored tax-exclusive unit price into the price
// shown to the user: identity in EXCLUSIVE mode, tax added in INCLUSIVE
// mode. quantity only matters for fixed-amount rates, whose flat charge is
// spread per unit for display.
func ToDisplayRate(unitPrice decimal.Decimal, rate *ResolvedRate, mode TaxMode, quantity decimal.Decimal) decimal.Decimal {
	if mode != TaxModeInclusive || rate == nil {
		return unitPrice.Round(2)
	}
	switch rate.Kind {
	case RatePercentage:
		return unitPrice.Mul(one.Add(rate.Percent.Div(hundred))).Round(2)
	case RateFixedAmount:
		if quantity.IsPositive() {
			return unitPrice.Add(rate.Amount.Div(quantity)).Round(2)
		}
		return unitPrice.Round(2)
	}
	return unitPrice.Round(2)
}

// FromDisplayRate is the inverse of ToDisplayRate: it extracts the
// tax-exclusive unit price from a user-entered display price. This is the
// only place the INCLUSIVE conversion happens; the result feeds
// LineParams.UnitPrice. Round-trips with ToDisplayRate within 0.01.
func FromDisplayRate(displayRate decimal.Decimal, rate *ResolvedRate, mode TaxMode, quantity decimal.Decimal) decimal.Decimal {
	if mode != TaxModeInclusive || rate == nil {
		return displayRate.Round(2)
	}
	switch rate.Kind {
	case RatePercentage:
		return displayRate.Div(one.Add(rate.Percent.Div(hundred))).Round(2)
	case RateFixedAmount:
		if quantity.IsPositive() {
			return displayRate.Sub(rate.Amount.Div(quantity)).Round(2)
		}
		return displayRate.Round(2)
	}
	return displayRate.Round(2)
}
