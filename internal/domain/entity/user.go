package entity

import "time"

// Roles for User.
const (
	RoleAdmin       = "admin"
	RoleStorekeeper = "storekeeper"
	RoleCashier     = "cashier"
)

// User belongs to a Company.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past registration
	Name         string
	Role         string // admin, storekeeper, cashier
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
