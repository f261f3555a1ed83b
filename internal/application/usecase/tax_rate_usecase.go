package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/kmuwanga/billing-api/internal/application/dto"
	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// TaxRateUseCase manages the per-company tax rate reference data consumed
// by the tax engine.
type TaxRateUseCase struct {
	repo repository.TaxRateRepository
}

func NewTaxRateUseCase(repo repository.TaxRateRepository) *TaxRateUseCase {
	return &TaxRateUseCase{repo: repo}
}

// Create registers a tax rate. PERCENTAGE rates must carry a non-negative
// Rate, FIXED_AMOUNT rates a non-negative FixedAmount.
func (uc *TaxRateUseCase) Create(companyID string, in dto.CreateTaxRateRequest) (*dto.TaxRateResponse, error) {
	switch in.CalculationType {
	case entity.TaxCalculationPercentage:
		if in.Rate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	case entity.TaxCalculationFixedAmount:
		if in.FixedAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	rate := &entity.TaxRate{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		Name:             in.Name,
		CalculationType:  in.CalculationType,
		Rate:             in.Rate,
		FixedAmount:      in.FixedAmount,
		InclusiveDefault: in.InclusiveDefault,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(rate); err != nil {
		return nil, err
	}
	return toTaxRateResponse(rate), nil
}

func (uc *TaxRateUseCase) GetByID(id string) (*dto.TaxRateResponse, error) {
	rate, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, nil
	}
	return toTaxRateResponse(rate), nil
}

func (uc *TaxRateUseCase) Update(id string, in dto.UpdateTaxRateRequest) (*dto.TaxRateResponse, error) {
	rate, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, nil
	}
	if in.Name != nil {
		rate.Name = *in.Name
	}
	if in.Rate != nil {
		if in.Rate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		rate.Rate = *in.Rate
	}
	if in.FixedAmount != nil {
		if in.FixedAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		rate.FixedAmount = *in.FixedAmount
	}
	if in.InclusiveDefault != nil {
		rate.InclusiveDefault = *in.InclusiveDefault
	}
	rate.UpdatedAt = time.Now()
	if err := uc.repo.Update(rate); err != nil {
		return nil, err
	}
	return toTaxRateResponse(rate), nil
}

func (uc *TaxRateUseCase) List(companyID string) ([]dto.TaxRateResponse, error) {
	list, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaxRateResponse, 0, len(list))
	for i := range list {
		items = append(items, *toTaxRateResponse(&list[i]))
	}
	return items, nil
}

func (uc *TaxRateUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toTaxRateResponse(r *entity.TaxRate) *dto.TaxRateResponse {
	return &dto.TaxRateResponse{
		ID:               r.ID,
		CompanyID:        r.CompanyID,
		Name:             r.Name,
		CalculationType:  r.CalculationType,
		Rate:             r.Rate,
		FixedAmount:      r.FixedAmount,
		InclusiveDefault: r.InclusiveDefault,
		CreatedAt:        r.CreatedAt,
	}
}
