package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

var _ repository.TaxRateRepository = (*TaxRateRepo)(nil)

// TaxRateRepo implements the TaxRateRepository port over PostgreSQL.
// Tax rates are reference data; ListByCompany feeds the engine's rate list
// for one calculation pass.
type TaxRateRepo struct {
	pool *pgxpool.Pool
}

// NewTaxRateRepository builds the persistence adapter for tax rates.
func NewTaxRateRepository(pool *pgxpool.Pool) *TaxRateRepo {
	return &TaxRateRepo{pool: pool}
}

// Create persists a new tax rate.
func (r *TaxRateRepo) Create(rate *entity.TaxRate) error {
	query := `
		INSERT INTO tax_rates (id, company_id, name, calculation_type, rate, fixed_amount, inclusive_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		rate.ID, rate.CompanyID, rate.Name, rate.CalculationType,
		rate.Rate, rate.FixedAmount, rate.InclusiveDefault,
		rate.CreatedAt, rate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tax rate: %w", err)
	}
	return nil
}

// GetByID returns a tax rate by ID.
func (r *TaxRateRepo) GetByID(id string) (*entity.TaxRate, error) {
	query := taxRateSelect + ` WHERE id = $1`
	var t entity.TaxRate
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.CalculationType,
		&t.Rate, &t.FixedAmount, &t.InclusiveDefault,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax rate: %w", err)
	}
	return &t, nil
}

// ListByCompany returns all tax rates of a company. The full list is small
// (a handful of rows per tenant) so there is no pagination.
func (r *TaxRateRepo) ListByCompany(companyID string) ([]entity.TaxRate, error) {
	query := taxRateSelect + ` WHERE company_id = $1 ORDER BY name`
	rows, err := r.pool.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}
	defer rows.Close()

	var rates []entity.TaxRate
	for rows.Next() {
		var t entity.TaxRate
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.Name, &t.CalculationType,
			&t.Rate, &t.FixedAmount, &t.InclusiveDefault,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		rates = append(rates, t)
	}
	return rates, rows.Err()
}

// Update persists the mutable fields of a tax rate.
func (r *TaxRateRepo) Update(rate *entity.TaxRate) error {
	query := `
		UPDATE tax_rates
		SET name = $2, calculation_type = $3, rate = $4, fixed_amount = $5, inclusive_default = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		rate.ID, rate.Name, rate.CalculationType, rate.Rate, rate.FixedAmount,
		rate.InclusiveDefault, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tax rate: %w", err)
	}
	return nil
}

// Delete removes a tax rate by ID.
func (r *TaxRateRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM tax_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tax rate: %w", err)
	}
	return nil
}

const taxRateSelect = `
	SELECT id, company_id, name, calculation_type, rate, fixed_amount, inclusive_default, created_at, updated_at
	FROM tax_rates`
