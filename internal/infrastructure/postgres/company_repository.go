package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

// Ensure CompanyRepo implements repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implements the CompanyRepository port over PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository builds the persistence adapter for companies.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// Create persists a new company.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, tin, branch_id, device_no, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(context.Background(), query,
		company.ID, company.Name, company.TIN, nullIfEmpty(company.BranchID), nullIfEmpty(company.DeviceNo),
		company.Address, company.Phone, company.Email, company.Status,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company TIN already registered: %w", err)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID returns a company by ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := companySelect + ` WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "get company")
}

// GetByTIN returns a company by its taxpayer identification number.
func (r *CompanyRepo) GetByTIN(tin string) (*entity.Company, error) {
	query := companySelect + ` WHERE tin = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, tin), "get company by TIN")
}

// Update persists the mutable fields of a company.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, branch_id = $3, device_no = $4, address = $5,
		    phone = $6, email = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		company.ID, company.Name, nullIfEmpty(company.BranchID), nullIfEmpty(company.DeviceNo),
		company.Address, company.Phone, company.Email, company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List returns companies ordered by creation date.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := companySelect + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*entity.Company
	for rows.Next() {
		var c entity.Company
		var branchID, deviceNo *string
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TIN, &branchID, &deviceNo,
			&c.Address, &c.Phone, &c.Email, &c.Status,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.BranchID = derefStr(branchID)
		c.DeviceNo = derefStr(deviceNo)
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

// Delete removes a company by ID.
func (r *CompanyRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

const companySelect = `
	SELECT id, name, tin, branch_id, device_no, address, phone, email, status, created_at, updated_at
	FROM companies`

func (r *CompanyRepo) scanOne(row interface{ Scan(dest ...any) error }, op string) (*entity.Company, error) {
	var c entity.Company
	var branchID, deviceNo *string
	err := row.Scan(
		&c.ID, &c.Name, &c.TIN, &branchID, &deviceNo,
		&c.Address, &c.Phone, &c.Email, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.BranchID = derefStr(branchID)
	c.DeviceNo = derefStr(deviceNo)
	return &c, nil
}
