package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory movement types.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
	MovementTypeTRANSFER   = "TRANSFER"
)

// InventoryMovement records one stock movement. TransactionID links related
// movements (the invoice or credit note ID for billing-driven movements).
type InventoryMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positive for IN/adjust+, negative for OUT
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
