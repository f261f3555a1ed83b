// Package tax implements the line-item VAT and excise calculation engine
// shared by invoicing, credit notes and fiscal reporting (URA/EFRIS model:
// specific excise duty layered under VAT).
//
// Every function here is pure: rates, tax mode and discounts are explicit
// arguments, nothing reads package-level state, and the same inputs always
// produce the same outputs. All monetary results are rounded half-up to
// 2 decimal places once, at the end of each derived value.
package tax

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
)

// RateKind discriminates how a resolved tax rate is applied.
type RateKind int

const (
	// RatePercentage applies Percent over the net-after-discount amount.
	RatePercentage RateKind = iota + 1
	// RateFixedAmount adds Amount as a flat per-line charge, not scaled by
	// quantity nor reduced by discounts.
	RateFixedAmount
)

// ErrUnknownRateKind is returned when a ResolvedRate carries a kind outside
// the two defined cases. A third calculation type must never be applied
// silently as zero tax.
var ErrUnknownRateKind = errors.New("tax: unknown rate kind")

// ResolvedRate is the concrete tax computation rule looked up for a line.
// Exactly one of Percent / Amount is meaningful, selected by Kind.
type ResolvedRate struct {
	Kind    RateKind
	Percent decimal.Decimal // VAT percentage (18 means 18%), Kind == RatePercentage
	Amount  decimal.Decimal // flat currency amount per line, Kind == RateFixedAmount
}

// Resolve looks up taxRateID within rates and returns the applicable rule.
// A nil result means "no tax": an empty or unknown ID never blocks a
// calculation, so invoicing keeps working when a rate was deleted after
// products were configured with it.
func Resolve(taxRateID string, rates []entity.TaxRate) *ResolvedRate {
	if taxRateID == "" {
		return nil
	}
	for i := range rates {
		if rates[i].ID != taxRateID {
			continue
		}
		switch rates[i].CalculationType {
		case entity.TaxCalculationPercentage:
			return &ResolvedRate{Kind: RatePercentage, Percent: rates[i].Rate}
		case entity.TaxCalculationFixedAmount:
			return &ResolvedRate{Kind: RateFixedAmount, Amount: rates[i].FixedAmount}
		}
		// Unknown calculation type on reference data: treat as no tax, the
		// same permissive default as an unknown ID.
		return nil
	}
	return nil
}
