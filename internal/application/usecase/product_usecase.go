package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// ProductUseCase covers product CRUD. Cost and stock are maintained through
// inventory movements, never edited directly.
type ProductUseCase struct {
	repo        repository.ProductRepository
	taxRateRepo repository.TaxRateRepository
}

func NewProductUseCase(repo repository.ProductRepository, taxRateRepo repository.TaxRateRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, taxRateRepo: taxRateRepo}
}

// Create registers a product. Cost starts at 0 and TaxRateID, when present,
// must point at an existing rate of the same company.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkTaxRate(companyID, in.TaxRateID); err != nil {
		return nil, err
	}
	if in.ExciseRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		Cost:           decimal.Zero,
		TaxRateID:      in.TaxRateID,
		ExciseDutyCode: in.ExciseDutyCode,
		ExciseRate:     in.ExciseRate,
		ExciseUnit:     in.ExciseUnit,
		GoodsCode:      in.GoodsCode,
		UnitMeasure:    in.UnitMeasure,
		Attributes:     in.Attributes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update modifies a product. Cost and stock stay untouched here.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.TaxRateID != nil {
		if err := uc.checkTaxRate(product.CompanyID, *in.TaxRateID); err != nil {
			return nil, err
		}
		product.TaxRateID = *in.TaxRateID
	}
	if in.GoodsCode != nil {
		product.GoodsCode = *in.GoodsCode
	}
	if in.ExciseDutyCode != nil {
		product.ExciseDutyCode = *in.ExciseDutyCode
	}
	if in.ExciseRate != nil {
		if in.ExciseRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ExciseRate = *in.ExciseRate
	}
	if in.ExciseUnit != nil {
		product.ExciseUnit = *in.ExciseUnit
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if len(in.Attributes) > 0 {
		product.Attributes = in.Attributes
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) List(companyID string, page dto.PageRequest) (*dto.PageResponse[dto.ProductResponse], error) {
	page.Normalize()
	list, err := uc.repo.ListByCompany(companyID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.PageResponse[dto.ProductResponse]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    len(items),
	}, nil
}

func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func (uc *ProductUseCase) checkTaxRate(companyID, taxRateID string) error {
	if taxRateID == "" {
		return nil
	}
	rate, err := uc.taxRateRepo.GetByID(taxRateID)
	if err != nil {
		return err
	}
	if rate == nil || rate.CompanyID != companyID {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Cost:           p.Cost,
		TaxRateID:      p.TaxRateID,
		GoodsCode:      p.GoodsCode,
		ExciseDutyCode: p.ExciseDutyCode,
		ExciseRate:     p.ExciseRate,
		ExciseUnit:     p.ExciseUnit,
		UnitMeasure:    p.UnitMeasure,
		Attributes:     p.Attributes,
		CreatedAt:      p.CreatedAt,
	}
}
