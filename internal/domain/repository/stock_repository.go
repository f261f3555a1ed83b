package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// StockRepository is the port for reading/updating stock per
// warehouse+product. Used inside transactions to guarantee consistency.
type StockRepository interface {
	Get(productID, warehouseID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate locks the row (SELECT FOR UPDATE).
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
}
