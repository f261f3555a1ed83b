package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable product or SKU (multi-warehouse). Cost is the
// weighted-average cost maintained from inventory movements; stock is kept
// per warehouse in Stock. TaxRateID points at the company's TaxRate
// reference data; the Excise* fields are set only for excisable goods
// (alcohol, tobacco, fuel…) and feed the excise breakdown.
type Product struct {
	ID             string
	CompanyID      string
	SKU            string // unique per company
	Name           string
	Description    string
	Price          decimal.Decimal // selling price, tax-exclusive
	Cost           decimal.Decimal // weighted-average cost (starts at 0)
	TaxRateID      string          // empty = no VAT
	ExciseDutyCode string
	ExciseRate     decimal.Decimal // specific duty per unit
	ExciseUnit     string          // EFRIS excise unit code
	GoodsCode      string          // EFRIS goods category code
	UnitMeasure    string
	Attributes     json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
