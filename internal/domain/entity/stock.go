package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is the current quantity of a product in one warehouse
// (materialized from movements).
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
