package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// TaxRateRepository is the persistence port for TaxRate reference data.
// ListByCompany feeds the rate list handed to the tax engine for one
// calculation pass; the engine never reads the repository itself.
type TaxRateRepository interface {
	Create(rate *entity.TaxRate) error
	GetByID(id string) (*entity.TaxRate, error)
	ListByCompany(companyID string) ([]entity.TaxRate, error)
	Update(rate *entity.TaxRate) error
	Delete(id string) error
}
