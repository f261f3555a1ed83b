package entity

import "time"

// Warehouse is a store or branch holding inventory (multi-warehouse).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
