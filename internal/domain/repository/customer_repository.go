package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// CustomerRepository is the persistence port for Customer (billing).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndTIN(companyID, tin string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
