package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterMovementRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid4"`
	WarehouseID     string           `json:"warehouse_id" validate:"omitempty,uuid4"`
	FromWarehouseID string           `json:"from_warehouse_id" validate:"omitempty,uuid4"`
	ToWarehouseID   string           `json:"to_warehouse_id" validate:"omitempty,uuid4"`
	Type            string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"required"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
