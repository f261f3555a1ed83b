package postgres

import (
	"context"
	"fmt"

	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implements CustomerRepository (usable with pool or tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the customer adapter. Pass a pool or a tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persists a new customer. TIN is nullable; consumers without a TIN
// are billed as B2C buyers.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, company_id, name, tin, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.CompanyID, customer.Name, nullIfEmpty(customer.TIN),
		customer.Email, customer.Phone, customer.Address,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer TIN already registered: %w", err)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID returns a customer by ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := customerSelect + ` WHERE id = $1`
	return scanCustomer(r.q.QueryRow(context.Background(), query, id), "get customer")
}

// GetByCompanyAndTIN returns the customer with the given TIN within a company.
func (r *CustomerRepo) GetByCompanyAndTIN(companyID, tin string) (*entity.Customer, error) {
	query := customerSelect + ` WHERE company_id = $1 AND tin = $2`
	return scanCustomer(r.q.QueryRow(context.Background(), query, companyID, tin), "get customer by TIN")
}

// ListByCompany returns the customers of a company ordered by name.
func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := customerSelect + ` WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var tin *string
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Name, &tin, &c.Email, &c.Phone, &c.Address,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.TIN = derefStr(tin)
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// Update persists the mutable fields of a customer.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, tin = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, nullIfEmpty(customer.TIN),
		customer.Email, customer.Phone, customer.Address, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer TIN already registered: %w", err)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete removes a customer by ID.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

const customerSelect = `
	SELECT id, company_id, name, tin, email, phone, address, created_at, updated_at
	FROM customers`

func scanCustomer(row interface{ Scan(dest ...any) error }, op string) (*entity.Customer, error) {
	var c entity.Customer
	var tin *string
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &tin, &c.Email, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.TIN = derefStr(tin)
	return &c, nil
}
