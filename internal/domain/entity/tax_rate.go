package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculation types for TaxRate. Exactly one of Rate / FixedAmount is
// semantically active, selected by CalculationType.
const (
	TaxCalculationPercentage  = "PERCENTAGE"
	TaxCalculationFixedAmount = "FIXED_AMOUNT"
)

// TaxRate is an immutable tax rate definition (reference data per company).
// PERCENTAGE rates carry Rate as a percent (18 means 18%); FIXED_AMOUNT
// rates carry FixedAmount in currency units charged once per invoice line.
type TaxRate struct {
	ID               string
	CompanyID        string
	Name             string
	CalculationType  string // PERCENTAGE | FIXED_AMOUNT
	Rate             decimal.Decimal
	FixedAmount      decimal.Decimal
	InclusiveDefault bool // new documents default to tax-inclusive entry
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
