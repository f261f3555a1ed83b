package repository

import "github.com/kmuwanga/billing-api/internal/domain/entity"

// CompanyRepository is the persistence port for Company (DIP).
// Implementations live in infrastructure.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByTIN(tin string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	Delete(id string) error
}
