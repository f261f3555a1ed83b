package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateTaxRateRequest struct {
	Name             string          `json:"name" validate:"required,min=2,max=120"`
	CalculationType  string          `json:"calculation_type" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Rate             decimal.Decimal `json:"rate"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	InclusiveDefault bool            `json:"inclusive_default"`
}

type UpdateTaxRateRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=2,max=120"`
	Rate             *decimal.Decimal `json:"rate"`
	FixedAmount      *decimal.Decimal `json:"fixed_amount"`
	InclusiveDefault *bool            `json:"inclusive_default"`
}

type TaxRateResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	Name             string          `json:"name"`
	CalculationType  string          `json:"calculation_type"`
	Rate             decimal.Decimal `json:"rate"`
	FixedAmount      decimal.Decimal `json:"fixed_amount"`
	InclusiveDefault bool            `json:"inclusive_default"`
	CreatedAt        time.Time       `json:"created_at"`
}
