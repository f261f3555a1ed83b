package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrBreakdownMismatch signals that an excise decomposition does not add
// back up to the gross line total beyond rounding tolerance. That is a
// logic defect, never a user input problem: it must fail loudly instead of
// flowing a wrong total into a fiscal report.
var ErrBreakdownMismatch = errors.New("tax: excise breakdown does not reconcile with line total")

// breakdownTolerance is the maximum acceptable drift between the summed
// breakdown and the gross line total (one cent).
var breakdownTolerance = decimal.New(1, -2)

// ExciseLine is the read-only per-line decomposition of a gross selling
// price into net base, specific excise duty and VAT. Computed fresh each
// render; it has no lifecycle of its own.
type ExciseLine struct {
	HasExcise bool

	GrossPerUnit  decimal.Decimal
	NetPerUnit    decimal.Decimal
	ExcisePerUnit decimal.Decimal
	VATPerUnit    decimal.Decimal

	NetTotal    decimal.Decimal
	ExciseTotal decimal.Decimal
	VATTotal    decimal.Decimal
	LineTotal   decimal.Decimal // grossPerUnit * quantity
}

// ComputeExcise decomposes a tax-inclusive, excise-inclusive gross unit
// price. The model is the URA one: excise duty is a specific (per-unit)
// charge levied before VAT, so VAT is computed on net+excise, not on net
// alone:
//
//	beforeVAT = gross / (1 + vatRate)
//	net       = beforeVAT - excisePerUnit
//	vat       = beforeVAT * vatRate
//
// A zero excise rate yields HasExcise == false with net == beforeVAT.
//
// NetTotal is derived as lineTotal - vatTotal - exciseTotal so that the
// fiscal identity netTotal+exciseTotal+vatTotal == lineTotal holds exactly
// after 2-dp rounding; the government format cross-validates it.
func ComputeExcise(grossPerUnit, quantity, vatPercent, exciseRatePerUnit decimal.Decimal) (ExciseLine, error) {
	if grossPerUnit.IsNegative() {
		return ExciseLine{}, &ValidationError{Field: "grossPerUnit", Reason: "must not be negative"}
	}
	if quantity.IsNegative() {
		return ExciseLine{}, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if vatPercent.IsNegative() {
		return ExciseLine{}, &ValidationError{Field: "vatPercent", Reason: "must not be negative"}
	}
	if exciseRatePerUnit.IsNegative() {
		return ExciseLine{}, &ValidationError{Field: "exciseRate", Reason: "must not be negative"}
	}

	vatRate := vatPercent.Div(hundred)
	beforeVAT := grossPerUnit
	if vatRate.IsPositive() {
		beforeVAT = grossPerUnit.Div(one.Add(vatRate))
	}

	hasExcise := exciseRatePerUnit.IsPositive()
	excisePerUnit := decimal.Zero
	if hasExcise {
		excisePerUnit = exciseRatePerUnit
	}
	netPerUnit := beforeVAT.Sub(excisePerUnit)
	vatPerUnit := beforeVAT.Mul(vatRate)

	lineTotal := grossPerUnit.Mul(quantity).Round(2)
	vatTotal := vatPerUnit.Mul(quantity).Round(2)
	exciseTotal := excisePerUnit.Mul(quantity).Round(2)
	netTotal := lineTotal.Sub(vatTotal).Sub(exciseTotal)

	bl := ExciseLine{
		HasExcise:     hasExcise,
		GrossPerUnit:  grossPerUnit.Round(2),
		NetPerUnit:    netPerUnit.Round(2),
		ExcisePerUnit: excisePerUnit.Round(2),
		VATPerUnit:    vatPerUnit.Round(2),
		NetTotal:      netTotal,
		ExciseTotal:   exciseTotal,
		VATTotal:      vatTotal,
		LineTotal:     lineTotal,
	}
	if err := bl.CheckIdentity(); err != nil {
		return ExciseLine{}, err
	}
	return bl, nil
}

// CheckIdentity verifies net+excise+VAT == lineTotal within tolerance, both
// for the stored totals and for the per-unit values re-multiplied by the
// implied quantity. Wraps ErrBreakdownMismatch on failure.
func (l ExciseLine) CheckIdentity() error {
	sum := l.NetTotal.Add(l.ExciseTotal).Add(l.VATTotal)
	if diff := sum.Sub(l.LineTotal).Abs(); diff.GreaterThan(breakdownTolerance) {
		return fmt.Errorf("%w: net %s + excise %s + vat %s = %s, line total %s",
			ErrBreakdownMismatch, l.NetTotal, l.ExciseTotal, l.VATTotal, sum, l.LineTotal)
	}
	return nil
}

// ExciseSummary aggregates excise breakdowns across a document's lines.
type ExciseSummary struct {
	NetTotal    decimal.Decimal
	ExciseTotal decimal.Decimal
	VATTotal    decimal.Decimal
	GrossTotal  decimal.Decimal
}

// AggregateExcise sums per-line breakdowns into document totals for the
// fiscal summary block.
func AggregateExcise(lines []ExciseLine) ExciseSummary {
	var s ExciseSummary
	for _, l := range lines {
		s.NetTotal = s.NetTotal.Add(l.NetTotal)
		s.ExciseTotal = s.ExciseTotal.Add(l.ExciseTotal)
		s.VATTotal = s.VATTotal.Add(l.VATTotal)
		s.GrossTotal = s.GrossTotal.Add(l.LineTotal)
	}
	return s
}
