package entity

import "time"

// Company is a tenant organization. TIN and BranchID identify the seller
// towards URA; DeviceNo is the EFRIS device registration used on fiscal
// documents.
type Company struct {
	ID        string
	Name      string
	TIN       string
	BranchID  string
	DeviceNo  string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
