package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=60"`
	Name           string          `json:"name" validate:"required,min=2,max=160"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	Price          decimal.Decimal `json:"price" validate:"required"`
	TaxRateID      string          `json:"tax_rate_id" validate:"omitempty,uuid4"`
	GoodsCode      string          `json:"goods_code" validate:"omitempty,max=40"`
	ExciseDutyCode string          `json:"excise_duty_code" validate:"omitempty,max=20"`
	ExciseRate     decimal.Decimal `json:"excise_rate"`
	ExciseUnit     string          `json:"excise_unit" validate:"omitempty,max=10"`
	UnitMeasure    string          `json:"unit_measure" validate:"omitempty,max=10"`
	Attributes     json.RawMessage `json:"attributes"`
}

type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=2,max=160"`
	Description    *string          `json:"description" validate:"omitempty,max=500"`
	Price          *decimal.Decimal `json:"price"`
	TaxRateID      *string          `json:"tax_rate_id" validate:"omitempty,uuid4"`
	GoodsCode      *string          `json:"goods_code" validate:"omitempty,max=40"`
	ExciseDutyCode *string          `json:"excise_duty_code" validate:"omitempty,max=20"`
	ExciseRate     *decimal.Decimal `json:"excise_rate"`
	ExciseUnit     *string          `json:"excise_unit" validate:"omitempty,max=10"`
	UnitMeasure    *string          `json:"unit_measure" validate:"omitempty,max=10"`
	Attributes     json.RawMessage  `json:"attributes"`
}

type ProductResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	TaxRateID      string          `json:"tax_rate_id,omitempty"`
	GoodsCode      string          `json:"goods_code,omitempty"`
	ExciseDutyCode string          `json:"excise_duty_code,omitempty"`
	ExciseRate     decimal.Decimal `json:"excise_rate"`
	ExciseUnit     string          `json:"excise_unit,omitempty"`
	UnitMeasure    string          `json:"unit_measure,omitempty"`
	Attributes     json.RawMessage `json:"attributes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
