package entity

import "time"

// Customer is a billing customer of the company. TIN is the URA taxpayer
// identification number, required on fiscal invoices for business buyers.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TIN       string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
