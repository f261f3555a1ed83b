package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kmuwanga/billing-api/internal/domain"
	"github.com/kmuwanga/billing-api/internal/domain/entity"
	"github.com/kmuwanga/billing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository (usable with pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the product adapter. Pass a pool or a tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persists a new product.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, sku, name, description, price, cost,
		                      tax_rate_id, excise_duty_code, excise_rate, excise_unit,
		                      goods_code, unit_measure, attributes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost,
		nullIfEmpty(product.TaxRateID), nullIfEmpty(product.ExciseDutyCode), product.ExciseRate,
		nullIfEmpty(product.ExciseUnit), nullIfEmpty(product.GoodsCode), product.UnitMeasure,
		attributesOrNil(product.Attributes),
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns a product by ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := productSelect + ` WHERE id = $1`
	return scanProduct(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByCompanyAndSKU returns the product with the given SKU within a company.
func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	query := productSelect + ` WHERE company_id = $1 AND sku = $2`
	return scanProduct(r.q.QueryRow(context.Background(), query, companyID, sku), "get product by SKU")
}

// Update persists the mutable fields of a product. Cost is updated only
// through UpdateCost so the weighted average never races a catalog edit.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET sku = $2, name = $3, description = $4, price = $5,
		    tax_rate_id = $6, excise_duty_code = $7, excise_rate = $8, excise_unit = $9,
		    goods_code = $10, unit_measure = $11, attributes = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, product.Price,
		nullIfEmpty(product.TaxRateID), nullIfEmpty(product.ExciseDutyCode), product.ExciseRate,
		nullIfEmpty(product.ExciseUnit), nullIfEmpty(product.GoodsCode), product.UnitMeasure,
		attributesOrNil(product.Attributes), product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCost writes the weighted-average cost (called inside the IN
// movement transaction).
func (r *ProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// ListByCompany returns the products of a company ordered by name.
func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	query := productSelect + ` WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows, "scan product")
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Delete removes a product by ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

const productSelect = `
	SELECT id, company_id, sku, name, description, price, cost,
	       tax_rate_id, excise_duty_code, excise_rate, excise_unit,
	       goods_code, unit_measure, attributes, created_at, updated_at
	FROM products`

func scanProduct(row interface{ Scan(dest ...any) error }, op string) (*entity.Product, error) {
	var p entity.Product
	var taxRateID, exciseDutyCode, exciseUnit, goodsCode *string
	var attributes []byte
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost,
		&taxRateID, &exciseDutyCode, &p.ExciseRate, &exciseUnit,
		&goodsCode, &p.UnitMeasure, &attributes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.TaxRateID = derefStr(taxRateID)
	p.ExciseDutyCode = derefStr(exciseDutyCode)
	p.ExciseUnit = derefStr(exciseUnit)
	p.GoodsCode = derefStr(goodsCode)
	p.Attributes = json.RawMessage(attributes)
	return &p, nil
}

func attributesOrNil(attrs json.RawMessage) any {
	if len(attrs) == 0 {
		return nil
	}
	return []byte(attrs)
}
